package repository

import (
	"context"
	"fmt"
	"sync"

	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/internal/domain/repository"
)

// MemoryManifestRepository implements the ManifestRepository interface
// entirely in memory. Used in tests and anywhere a backing store is not
// wanted; persisted snapshots are kept on the struct.
type MemoryManifestRepository struct {
	mu        sync.RWMutex
	records   []entity.ManifestRecord
	persisted map[int]entity.ManifestRecord
}

// NewMemoryManifestRepository creates a memory manifest repository seeded
// with records
func NewMemoryManifestRepository(records []entity.ManifestRecord) *MemoryManifestRepository {
	seeded := make([]entity.ManifestRecord, len(records))
	copy(seeded, records)
	return &MemoryManifestRepository{
		records:   seeded,
		persisted: make(map[int]entity.ManifestRecord),
	}
}

// Load returns a snapshot of the seeded records
func (r *MemoryManifestRepository) Load(ctx context.Context) ([]entity.ManifestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]entity.ManifestRecord, len(r.records))
	copy(snapshot, r.records)
	return snapshot, nil
}

// FindByName returns indices of rows matching name exactly
func (r *MemoryManifestRepository) FindByName(name string) []int {
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
func (r *MemoryManifestRepository) Record(idx int) (entity.ManifestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx < 0 || idx >= len(r.records) {
		return entity.ManifestRecord{}, fmt.Errorf("manifest row %d out of range", idx)
	}
	return r.records[idx], nil
}

// SetFlags sets validity flags on the row at idx
func (r *MemoryManifestRepository) SetFlags(ctx context.Context, idx int, flags ...entity.Flag) error {
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

// PersistRow records the current row state as the persisted snapshot
func (r *MemoryManifestRepository) PersistRow(ctx context.Context, idx int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx < 0 || idx >= len(r.records) {
		return fmt.Errorf("manifest row %d out of range", idx)
	}
	r.persisted[idx] = r.records[idx]
	return nil
}

// Persisted returns the snapshot written for idx, if any
func (r *MemoryManifestRepository) Persisted(idx int) (entity.ManifestRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.persisted[idx]
	return record, ok
}

var _ repository.ManifestRepository = (*MemoryManifestRepository)(nil)
