package repositories

import (
	"context"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateProfileReader defines read operations for candidate rate profiles
type RateProfileReader interface {
	// FindRateProfileByID retrieves a profile by its id.
	FindRateProfileByID(ctx context.Context, profileID string) (*domain.RateProfile, error)

	// ListRateProfiles retrieves profiles that carry a base rate, optionally
	// scoped to one owner. A nil ownerID selects all profiles system-wide.
	ListRateProfiles(ctx context.Context, ownerID *string) ([]domain.RateProfile, error)
}

// RateProfileWriter defines write operations for candidate rate profiles
type RateProfileWriter interface {
	// SaveRateProfile inserts a new profile row.
	SaveRateProfile(ctx context.Context, profile domain.RateProfile) error

	// UpdateBaseRate updates the profile's base amount, currency and period.
	UpdateBaseRate(ctx context.Context, profileID string, amount decimal.Decimal, currency domain.CurrencyCode, period domain.RatePeriod, updatedAt time.Time) error

	// UpdateCachedRates writes all four cached values together with the
	// snapshot reference and timestamp in a single statement, so readers never
	// observe a partially updated cache.
	UpdateCachedRates(ctx context.Context, profileID string, rates domain.CachedRates, snapshotID string, calculatedAt time.Time) error
}

// RateProfileRepositoryFacade combines all rate-profile repository interfaces
type RateProfileRepositoryFacade interface {
	RateProfileReader
	RateProfileWriter
}
