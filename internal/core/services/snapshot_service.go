package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/adapters/ratesource"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	portsrepo "github.com/hrforge/candidate_rates_service/internal/core/ports/repositories"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
	"github.com/google/uuid"
)

// snapshotService orchestrates the rate store: it turns fetch outcomes into
// recorded snapshot rows and answers active-snapshot queries.
type snapshotService struct {
	snapshotRepo portsrepo.SnapshotRepositoryFacade
	fetcher      ratesource.Fetcher
	logger       *slog.Logger
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(snapshotRepo portsrepo.SnapshotRepositoryFacade, fetcher ratesource.Fetcher, logger *slog.Logger) portssvc.RateSnapshotSvcFacade {
	return &snapshotService{
		snapshotRepo: snapshotRepo,
		fetcher:      fetcher,
		logger:       logger,
	}
}

// Refresh fetches the daily rates and records the outcome.
//
// A successful fetch becomes the new active snapshot. Any source failure,
// partial results included, is persisted as an inactive audit row carrying
// whatever was recovered; the previously active snapshot stays authoritative.
func (s *snapshotService) Refresh(ctx context.Context) (*domain.RateSnapshot, error) {
	quotes, fetchErr := s.fetcher.FetchDaily(ctx)

	fetchedAt := quotes.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	snapshot := domain.RateSnapshot{
		SnapshotID: uuid.NewString(),
		USDRate:    quotes.USD,
		EURRate:    quotes.EUR,
		BYNRate:    quotes.BYN,
		FetchedAt:  fetchedAt,
	}

	if fetchErr == nil {
		snapshot.Active = true
		snapshot.Status = domain.FetchSuccess
		if err := s.snapshotRepo.RecordSuccess(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("failed to record rate snapshot: %w", err)
		}
		s.logger.Info("Recorded new active rate snapshot",
			slog.String("snapshot_id", snapshot.SnapshotID),
			slog.Time("fetched_at", snapshot.FetchedAt),
		)
		return &snapshot, nil
	}

	detail := fetchErr.Error()
	snapshot.Status = domain.FetchError
	snapshot.ErrorDetail = &detail

	if err := s.snapshotRepo.RecordFailure(ctx, snapshot); err != nil {
		// The audit row is best-effort; the typed fetch failure is what the
		// caller needs to see.
		s.logger.Error("Failed to record fetch failure",
			slog.String("fetch_error", detail),
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.Warn("Rate fetch failed, recorded audit row",
			slog.String("snapshot_id", snapshot.SnapshotID),
			slog.String("error", detail),
		)
	}

	return &snapshot, fetchErr
}

// GetActive retrieves the current active snapshot.
func (s *snapshotService) GetActive(ctx context.Context) (*domain.RateSnapshot, error) {
	snapshot, err := s.snapshotRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active snapshot in service: %w", err)
	}
	return snapshot, nil
}

// GetActiveOrStale retrieves the active snapshot plus an advisory staleness flag.
func (s *snapshotService) GetActiveOrStale(ctx context.Context, maxAge time.Duration) (*domain.RateSnapshot, bool, error) {
	snapshot, err := s.GetActive(ctx)
	if err != nil {
		return nil, false, err
	}
	return snapshot, snapshot.IsStale(maxAge, time.Now()), nil
}

// ListHistory retrieves recent fetch attempts, newest first.
func (s *snapshotService) ListHistory(ctx context.Context, limit int) ([]domain.RateSnapshot, error) {
	snapshots, err := s.snapshotRepo.ListSnapshots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot history in service: %w", err)
	}
	if snapshots == nil {
		return []domain.RateSnapshot{}, nil
	}
	return snapshots, nil
}
