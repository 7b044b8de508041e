package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"checkpoint-service/internal/domain/repository"
	"checkpoint-service/internal/infrastructure/config"
	"checkpoint-service/internal/infrastructure/persistence"
	"checkpoint-service/internal/interface/extraction"
	manifestRepo "checkpoint-service/internal/interface/repository"
	"checkpoint-service/internal/interface/vision"
	"checkpoint-service/internal/usecase"
	"checkpoint-service/pkg/logger"
	"checkpoint-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Checkpoint Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for the decision log
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up the manifest store: Postgres when a DSN is configured,
	// otherwise the flat-file manifest
	var manifest repository.ManifestRepository
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		manifest = manifestRepo.NewGormManifestRepository(gormDB)
	} else {
		manifest = manifestRepo.NewCSVManifestRepository(cfg.ManifestPath, cfg.ValidatedDir)
	}

	records, err := manifest.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load flight manifest", "error", err)
	}
	log.Info("Flight manifest loaded", "rows", len(records))

	decisionRepo := manifestRepo.NewMongoDecisionRepository(db)

	// Set up metrics
	appMetrics := metrics.NewMetrics("checkpoint")

	// Set up the extraction and vision clients. Missing credentials are
	// operator errors; nothing downstream can run without them.
	extractionClient, err := extraction.NewClient(
		cfg.FormRecognizerEndpoint,
		cfg.FormRecognizerModelID,
		cfg.FormRecognizerKey,
		cfg.PollAttempts,
		cfg.PollInterval,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create extraction client", "error", err)
	}

	faceClient, err := vision.NewFaceClient(cfg.FaceEndpoint, cfg.FaceKey, log)
	if err != nil {
		log.Fatal("Failed to create face client", "error", err)
	}

	predictionClient, err := vision.NewPredictionClient(
		cfg.VisionEndpoint,
		cfg.VisionPredictionKey,
		cfg.VisionProjectID,
		cfg.VisionIteration,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create prediction client", "error", err)
	}

	validator := usecase.NewValidator(manifest, cfg.FaceConfidenceMin, cfg.LighterThreshold, log)
	pipeline := usecase.NewVerificationPipeline(
		extractionClient,
		extractionClient,
		faceClient,
		predictionClient,
		manifest,
		decisionRepo,
		validator,
		log,
		appMetrics,
	)

	// Run the checkpoint batch in a goroutine
	go func() {
		if err := runBatch(ctx, cfg, pipeline, log); err != nil {
			log.Error("Batch run failed", "error", err)
		}
	}()

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(ctx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Checkpoint Service stopped")
}

// runBatch pushes every passenger found in the data dir through the
// pipeline. Each passenger i has a boarding pass PDF, an ID image and a
// luggage image; the checkpoint camera frame is shared.
func runBatch(ctx context.Context, cfg *config.Config, pipeline *usecase.VerificationPipeline, log logger.Logger) error {
	boardingDocs, err := filepath.Glob(filepath.Join(cfg.DataDir, "boarding_*.pdf"))
	if err != nil {
		return err
	}
	idImages, err := filepath.Glob(filepath.Join(cfg.DataDir, "id_*.jpg"))
	if err != nil {
		return err
	}
	luggageImages, err := filepath.Glob(filepath.Join(cfg.DataDir, "lighter_test_images", "lighter_test_set_*.jpg"))
	if err != nil {
		return err
	}
	cameraFrames, err := filepath.Glob(filepath.Join(cfg.DataDir, "thumbnail", "ps-*.jpg"))
	if err != nil {
		return err
	}
	if len(cameraFrames) == 0 {
		return fmt.Errorf("no camera frames in %s", cfg.DataDir)
	}

	cameraFrame, err := os.ReadFile(cameraFrames[0])
	if err != nil {
		return err
	}

	log.Info("Starting checkpoint batch", "passengers", len(boardingDocs))

	for i := range boardingDocs {
		if i >= len(idImages) || i >= len(luggageImages) {
			log.Warn("Incomplete documents for passenger, skipping", "index", i)
			continue
		}

		boardingDoc, err := os.ReadFile(boardingDocs[i])
		if err != nil {
			log.Error("Failed to read boarding pass", "path", boardingDocs[i], "error", err)
			continue
		}
		idImage, err := os.ReadFile(idImages[i])
		if err != nil {
			log.Error("Failed to read ID image", "path", idImages[i], "error", err)
			continue
		}
		luggageImage, err := os.ReadFile(luggageImages[i])
		if err != nil {
			log.Error("Failed to read luggage image", "path", luggageImages[i], "error", err)
			continue
		}

		decision, err := pipeline.Run(ctx, usecase.PassengerInput{
			IDImage:          idImage,
			BoardingPassDoc:  boardingDoc,
			BoardingPassType: "application/pdf",
			CameraFrame:      cameraFrame,
			LuggageImage:     luggageImage,
		})
		if err != nil {
			log.Error("Pipeline run failed", "index", i, "error", err)
			continue
		}

		for _, msg := range decision.Messages {
			fmt.Printf("\n%s\n", msg)
		}
	}

	log.Info("Checkpoint batch completed")
	return nil
}
