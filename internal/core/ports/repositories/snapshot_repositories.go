package repositories

import (
	"context"

	"github.com/hrforge/candidate_rates_service/internal/core/domain"
)

// SnapshotReader defines read operations for rate snapshot data
type SnapshotReader interface {
	// FindActive retrieves the single active snapshot, or
	// apperrors.ErrNoRatesAvailable when no snapshot has ever been activated.
	FindActive(ctx context.Context) (*domain.RateSnapshot, error)

	// FindSnapshotByID retrieves a snapshot by its id.
	FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.RateSnapshot, error)

	// ListSnapshots retrieves the most recent fetch attempts, newest first.
	ListSnapshots(ctx context.Context, limit int) ([]domain.RateSnapshot, error)
}

// SnapshotWriter defines write operations for rate snapshot data.
// Snapshots are append-only; rows are never updated after the recording step.
type SnapshotWriter interface {
	// RecordSuccess inserts the snapshot and makes it the single active row,
	// deactivating the previous active row in the same transaction.
	RecordSuccess(ctx context.Context, snapshot domain.RateSnapshot) error

	// RecordFailure inserts the snapshot as an inactive audit row. The
	// currently active snapshot, if any, is left untouched.
	RecordFailure(ctx context.Context, snapshot domain.RateSnapshot) error
}

// SnapshotRepositoryFacade combines all snapshot-related repository interfaces
type SnapshotRepositoryFacade interface {
	SnapshotReader
	SnapshotWriter
}
