package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	portsrepo "github.com/hrforge/candidate_rates_service/internal/core/ports/repositories"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
	"github.com/hrforge/candidate_rates_service/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cachedRateScale is the precision cached values are rounded to at write time.
// The conversion engine itself never rounds.
const cachedRateScale = 2

// rateCacheService keeps each profile's denormalized multi-currency cache
// consistent with the latest active snapshot.
type rateCacheService struct {
	profileRepo  portsrepo.RateProfileRepositoryFacade
	snapshotRepo portsrepo.SnapshotRepositoryFacade
	converter    portssvc.ConverterSvc
}

// NewRateCacheService creates a new rate cache service.
func NewRateCacheService(profileRepo portsrepo.RateProfileRepositoryFacade, snapshotRepo portsrepo.SnapshotRepositoryFacade, converter portssvc.ConverterSvc) portssvc.RateCacheSvcFacade {
	return &rateCacheService{
		profileRepo:  profileRepo,
		snapshotRepo: snapshotRepo,
		converter:    converter,
	}
}

// CreateProfile persists a new profile and attempts an initial recalculation.
// The profile is created even when no rates are available yet; its cache stays
// empty until the first successful recalculation.
func (s *rateCacheService) CreateProfile(ctx context.Context, req dto.CreateRateProfileRequest) (*domain.RateProfile, error) {
	amount := req.BaseAmount
	currency := domain.CurrencyCode(req.BaseCurrency)
	period := domain.RatePeriod(req.RatePeriod)
	if err := validateBaseRate(amount, currency, period); err != nil {
		return nil, err
	}

	now := time.Now()
	profile := domain.RateProfile{
		ProfileID:    uuid.NewString(),
		OwnerID:      req.OwnerID,
		CandidateID:  req.CandidateID,
		BaseAmount:   amount,
		BaseCurrency: currency,
		Period:       period,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.profileRepo.SaveRateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create rate profile in service: %w", err)
	}

	recomputed, err := s.RecomputeOne(ctx, profile.ProfileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoRatesAvailable) {
			return &profile, nil
		}
		return nil, err
	}
	return recomputed, nil
}

// GetProfile retrieves a profile with its cached values.
func (s *rateCacheService) GetProfile(ctx context.Context, profileID string) (*domain.RateProfile, error) {
	profile, err := s.profileRepo.FindRateProfileByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate profile in service: %w", err)
	}
	return profile, nil
}

// SetBaseRate validates and updates the profile's base rate, then immediately
// recomputes the cache. When no rates are available the base update still
// stands (with the cache cleared) and ErrNoRatesAvailable is reported.
func (s *rateCacheService) SetBaseRate(ctx context.Context, profileID string, req dto.SetBaseRateRequest) (*domain.RateProfile, error) {
	amount := req.Amount
	currency := domain.CurrencyCode(req.Currency)
	period := domain.RatePeriod(req.RatePeriod)
	if err := validateBaseRate(amount, currency, period); err != nil {
		return nil, err
	}

	if err := s.profileRepo.UpdateBaseRate(ctx, profileID, amount, currency, period, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update base rate in service: %w", err)
	}

	return s.RecomputeOne(ctx, profileID)
}

// RecomputeOne recalculates one profile's cache from the active snapshot.
// With no active snapshot the profile is left untouched and
// apperrors.ErrNoRatesAvailable is returned.
func (s *rateCacheService) RecomputeOne(ctx context.Context, profileID string) (*domain.RateProfile, error) {
	profile, err := s.profileRepo.FindRateProfileByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate profile for recompute: %w", err)
	}

	snapshot, err := s.snapshotRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active snapshot for recompute: %w", err)
	}

	rates, calculatedAt, err := s.recompute(ctx, profile, snapshot)
	if err != nil {
		return nil, err
	}

	profile.RateRUB = &rates.RUB
	profile.RateUSD = &rates.USD
	profile.RateEUR = &rates.EUR
	profile.RateBYN = &rates.BYN
	profile.RatesCalculatedAt = &calculatedAt
	profile.SnapshotID = &snapshot.SnapshotID
	profile.LastUpdatedAt = calculatedAt
	return profile, nil
}

// RecomputeAll recalculates every profile system-wide.
func (s *rateCacheService) RecomputeAll(ctx context.Context) (domain.BulkRecalcResult, error) {
	return s.recomputeMany(ctx, nil)
}

// RecomputeOwner recalculates all profiles belonging to one owner.
func (s *rateCacheService) RecomputeOwner(ctx context.Context, ownerID string) (domain.BulkRecalcResult, error) {
	return s.recomputeMany(ctx, &ownerID)
}

// recomputeMany walks the selected profiles and recalculates each one,
// continuing past individual failures. Partial success is the expected
// outcome when some profiles carry malformed base data.
func (s *rateCacheService) recomputeMany(ctx context.Context, ownerID *string) (domain.BulkRecalcResult, error) {
	var result domain.BulkRecalcResult

	snapshot, err := s.snapshotRepo.FindActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to get active snapshot for bulk recompute: %w", err)
	}

	profiles, err := s.profileRepo.ListRateProfiles(ctx, ownerID)
	if err != nil {
		return result, fmt.Errorf("failed to list rate profiles for bulk recompute: %w", err)
	}

	for i := range profiles {
		profile := &profiles[i]
		if _, _, err := s.recompute(ctx, profile, snapshot); err != nil {
			result.Failed = append(result.Failed, domain.FailedProfile{
				ProfileID: profile.ProfileID,
				Reason:    err.Error(),
			})
			continue
		}
		result.Updated++
	}

	return result, nil
}

// recompute converts the profile's base rate into all supported currencies
// against the given snapshot and persists the four values atomically.
func (s *rateCacheService) recompute(ctx context.Context, profile *domain.RateProfile, snapshot *domain.RateSnapshot) (domain.CachedRates, time.Time, error) {
	rates, err := s.converter.RatesFor(profile.BaseAmount, profile.BaseCurrency, snapshot)
	if err != nil {
		return domain.CachedRates{}, time.Time{}, err
	}

	rates.RUB = rates.RUB.Round(cachedRateScale)
	rates.USD = rates.USD.Round(cachedRateScale)
	rates.EUR = rates.EUR.Round(cachedRateScale)
	rates.BYN = rates.BYN.Round(cachedRateScale)

	// The cached value for the base currency is the base amount itself,
	// exactly; rounding must not disturb it.
	switch profile.BaseCurrency {
	case domain.RUB:
		rates.RUB = profile.BaseAmount
	case domain.USD:
		rates.USD = profile.BaseAmount
	case domain.EUR:
		rates.EUR = profile.BaseAmount
	case domain.BYN:
		rates.BYN = profile.BaseAmount
	}

	calculatedAt := time.Now()
	if err := s.profileRepo.UpdateCachedRates(ctx, profile.ProfileID, rates, snapshot.SnapshotID, calculatedAt); err != nil {
		return domain.CachedRates{}, time.Time{}, fmt.Errorf("failed to persist cached rates: %w", err)
	}
	return rates, calculatedAt, nil
}

// validateBaseRate applies the base-rate input rules shared by create and update.
func validateBaseRate(amount decimal.Decimal, currency domain.CurrencyCode, period domain.RatePeriod) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: base amount must not be negative", apperrors.ErrInvalidAmount)
	}
	if !domain.IsSupported(currency) {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidCurrency, currency)
	}
	if !domain.IsValidPeriod(period) {
		return fmt.Errorf("%w: unknown rate period %q", apperrors.ErrValidation, period)
	}
	return nil
}
