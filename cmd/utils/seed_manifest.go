// Seeds the Postgres manifest table from a flight manifest CSV.
//
// Usage: go run cmd/utils/seed_manifest.go -manifest data/raw/flight_manifest.csv
package main

import (
	"context"
	"flag"
	"os"

	manifestRepo "checkpoint-service/internal/interface/repository"
	"checkpoint-service/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	manifestPath := flag.String("manifest", "data/raw/flight_manifest.csv", "path to the flight manifest CSV")
	dsn := flag.String("dsn", os.Getenv("POSTGRES_DSN"), "postgres DSN")
	flag.Parse()

	log := logger.NewLogger()

	if *dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	csvStore := manifestRepo.NewCSVManifestRepository(*manifestPath, "")
	records, err := csvStore.Load(context.Background())
	if err != nil {
		log.Fatal("Failed to load manifest CSV", "error", err)
	}

	db, err := gorm.Open(postgres.Open(*dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	if err := db.AutoMigrate(&manifestRepo.ManifestRow{}); err != nil {
		log.Fatal("Failed to migrate manifest table", "error", err)
	}

	for _, record := range records {
		row := manifestRepo.ManifestRow{
			Name:              record.Name,
			Birthdate:         record.Birthdate,
			Seat:              record.Seat,
			FlightNumber:      record.FlightNumber,
			FlightDate:        record.FlightDate,
			FlightTime:        record.FlightTime,
			Origin:            record.Origin,
			Destination:       record.Destination,
			ValidDOB:          record.ValidDOB,
			ValidName:         record.ValidName,
			ValidBoardingPass: record.ValidBoardingPass,
			ValidPerson:       record.ValidPerson,
			ValidLuggage:      record.ValidLuggage,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Fatal("Failed to insert manifest row", "name", record.Name, "error", err)
		}
	}

	log.Info("Manifest seeded", "rows", len(records))
}
