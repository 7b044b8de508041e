package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormManifestRepository implements the ManifestRepository interface on
// Postgres. The table is loaded into an in-memory view keyed by row index;
// writes go back row by row.
type GormManifestRepository struct {
	db      *gorm.DB
	mu      sync.RWMutex
	records []entity.ManifestRecord
	ids     []uint
}

// NewGormManifestRepository creates a new GORM manifest repository
func NewGormManifestRepository(db *gorm.DB) *GormManifestRepository {
	return &GormManifestRepository{
		db: db,
	}
}

// ManifestRow GORM model for database mapping
type ManifestRow struct {
	ID                uint      `gorm:"primaryKey"`
	Name              string    `gorm:"column:name;index"`
	Birthdate         time.Time `gorm:"column:birthdate"`
	Seat              string    `gorm:"column:seat"`
	FlightNumber      string    `gorm:"column:flight_number"`
	FlightDate        time.Time `gorm:"column:flight_date"`
	FlightTime        string    `gorm:"column:flight_time"`
	Origin            string    `gorm:"column:origin"`
	Destination       string    `gorm:"column:destination"`
	ValidDOB          bool      `gorm:"column:valid_dob"`
	ValidName         bool      `gorm:"column:valid_name"`
	ValidBoardingPass bool      `gorm:"column:valid_boardingpass"`
	ValidPerson       bool      `gorm:"column:valid_person"`
	ValidLuggage      bool      `gorm:"column:valid_luggage"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName overrides the default table name
func (ManifestRow) TableName() string {
	return "m_flight_manifest"
}

func (row *ManifestRow) toEntity() entity.ManifestRecord {
	return entity.ManifestRecord{
		Name:              row.Name,
		Birthdate:         row.Birthdate,
		Seat:              row.Seat,
		FlightNumber:      row.FlightNumber,
		FlightDate:        row.FlightDate,
		FlightTime:        row.FlightTime,
		Origin:            row.Origin,
		Destination:       row.Destination,
		ValidDOB:          row.ValidDOB,
		ValidName:         row.ValidName,
		ValidBoardingPass: row.ValidBoardingPass,
		ValidPerson:       row.ValidPerson,
		ValidLuggage:      row.ValidLuggage,
	}
}

// Load reads the manifest table into the working view
func (r *GormManifestRepository) Load(ctx context.Context) ([]entity.ManifestRecord, error) {
	var rows []ManifestRow
	result := r.db.WithContext(ctx).Order("id").Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", result.Error)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make([]entity.ManifestRecord, len(rows))
	r.ids = make([]uint, len(rows))
	for i := range rows {
		r.records[i] = rows[i].toEntity()
		r.ids[i] = rows[i].ID
	}

	snapshot := make([]entity.ManifestRecord, len(r.records))
	copy(snapshot, r.records)
	return snapshot, nil
}

// FindByName returns indices of rows matching name exactly
func (r *GormManifestRepository) FindByName(name string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var indices []int
	for i := range r.records {
		if r.records[i].Name == name {
			indices = append(indices, i)
		}
	}
	return indices
}

// Record returns a copy of the row at idx
func (r *GormManifestRepository) Record(idx int) (entity.ManifestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx < 0 || idx >= len(r.records) {
		return entity.ManifestRecord{}, fmt.Errorf("manifest row %d out of range", idx)
	}
	return r.records[idx], nil
}

// SetFlags sets validity flags on the row at idx
func (r *GormManifestRepository) SetFlags(ctx context.Context, idx int, flags ...entity.Flag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx < 0 || idx >= len(r.records) {
		return fmt.Errorf("manifest row %d out of range", idx)
	}
	for _, f := range flags {
		r.records[idx].SetFlag(f)
	}
	return nil
}

// PersistRow writes the flags of the row at idx back to the table
func (r *GormManifestRepository) PersistRow(ctx context.Context, idx int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx < 0 || idx >= len(r.records) {
		return fmt.Errorf("manifest row %d out of range", idx)
	}

	record := r.records[idx]
	result := r.db.WithContext(ctx).
		Model(&ManifestRow{}).
		Where("id = ?", r.ids[idx]).
		Updates(map[string]interface{}{
			"valid_dob":          record.ValidDOB,
			"valid_name":         record.ValidName,
			"valid_boardingpass": record.ValidBoardingPass,
			"valid_person":       record.ValidPerson,
			"valid_luggage":      record.ValidLuggage,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to persist manifest row %d: %w", idx, result.Error)
	}
	return nil
}

var _ repository.ManifestRepository = (*GormManifestRepository)(nil)
