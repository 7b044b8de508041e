package repository

import (
	"context"

	"checkpoint-service/internal/domain/entity"
)

// ManifestRepository owns the flight manifest table. Implementations hold a
// mutable in-memory view keyed by row index and serialize row writes.
type ManifestRepository interface {
	// Load reads the manifest into the store's working view and returns a
	// snapshot of it
	Load(ctx context.Context) ([]entity.ManifestRecord, error)

	// FindByName returns the indices of rows whose name equals name
	// exactly. Matching is case-sensitive by design; spelling robustness
	// is an extraction concern, not a lookup concern.
	FindByName(name string) []int

	// Record returns a copy of the row at idx
	Record(idx int) (entity.ManifestRecord, error)

	// SetFlags sets validity flags on the row at idx. Flags are monotone
	// for the duration of a pipeline run.
	SetFlags(ctx context.Context, idx int, flags ...entity.Flag) error

	// PersistRow writes a single-row snapshot of the row at idx to the
	// backing store
	PersistRow(ctx context.Context, idx int) error
}
