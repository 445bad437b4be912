package services

import (
	"context"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/hrforge/candidate_rates_service/internal/dto"
	"github.com/shopspring/decimal"
)

// RateSnapshotReaderSvc defines read operations for rate snapshots
type RateSnapshotReaderSvc interface {
	// GetActive retrieves the single active snapshot, or
	// apperrors.ErrNoRatesAvailable when none has ever been activated.
	GetActive(ctx context.Context) (*domain.RateSnapshot, error)

	// GetActiveOrStale retrieves the active snapshot plus an advisory flag
	// telling whether its fetch time exceeds maxAge.
	GetActiveOrStale(ctx context.Context, maxAge time.Duration) (*domain.RateSnapshot, bool, error)

	// ListHistory retrieves recent fetch attempts, newest first.
	ListHistory(ctx context.Context, limit int) ([]domain.RateSnapshot, error)
}

// RateSnapshotRefresherSvc triggers a fetch against the external source.
type RateSnapshotRefresherSvc interface {
	// Refresh fetches the daily rates and records the outcome. The returned
	// snapshot is the row that was recorded, success or failure; the error is
	// the typed source failure when no new active snapshot was produced.
	Refresh(ctx context.Context) (*domain.RateSnapshot, error)
}

// RateSnapshotSvcFacade combines all snapshot-related service interfaces
type RateSnapshotSvcFacade interface {
	RateSnapshotReaderSvc
	RateSnapshotRefresherSvc
}

// ConverterSvc is the stateless conversion engine. It performs no I/O; the
// caller supplies the snapshot to convert against.
type ConverterSvc interface {
	// Convert converts amount between two supported currencies via the base.
	Convert(amount decimal.Decimal, from, to domain.CurrencyCode, snapshot *domain.RateSnapshot) (decimal.Decimal, error)

	// RatesFor computes the amount expressed in every supported currency.
	RatesFor(baseAmount decimal.Decimal, baseCurrency domain.CurrencyCode, snapshot *domain.RateSnapshot) (domain.CachedRates, error)
}

// RateProfileReaderSvc defines read operations for candidate rate profiles
type RateProfileReaderSvc interface {
	// GetProfile retrieves a profile with its cached values.
	GetProfile(ctx context.Context, profileID string) (*domain.RateProfile, error)
}

// RateProfileWriterSvc defines write operations for candidate rate profiles
type RateProfileWriterSvc interface {
	// CreateProfile persists a new profile and attempts an initial
	// recalculation of its cached values.
	CreateProfile(ctx context.Context, req dto.CreateRateProfileRequest) (*domain.RateProfile, error)

	// SetBaseRate validates and updates the profile's base rate, then
	// immediately recomputes the cached values.
	SetBaseRate(ctx context.Context, profileID string, req dto.SetBaseRateRequest) (*domain.RateProfile, error)
}

// RateRecalcSvc defines the single and bulk recalculation operations.
type RateRecalcSvc interface {
	// RecomputeOne recalculates one profile's cache from the active snapshot.
	RecomputeOne(ctx context.Context, profileID string) (*domain.RateProfile, error)

	// RecomputeAll recalculates every profile system-wide, tolerating
	// per-profile failures.
	RecomputeAll(ctx context.Context) (domain.BulkRecalcResult, error)

	// RecomputeOwner recalculates all profiles belonging to one owner.
	RecomputeOwner(ctx context.Context, ownerID string) (domain.BulkRecalcResult, error)
}

// RateCacheSvcFacade combines all rate-profile service interfaces
type RateCacheSvcFacade interface {
	RateProfileReaderSvc
	RateProfileWriterSvc
	RateRecalcSvc
}
