package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/hrforge/candidate_rates_service/internal/models"
	"github.com/hrforge/candidate_rates_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const rateProfileColumns = `profile_id, owner_id, candidate_id, base_amount, base_currency, rate_period,
		rate_rub, rate_usd, rate_eur, rate_byn, rates_calculated_at, snapshot_id,
		created_at, last_updated_at`

// PgxRateProfileRepository implements repositories.RateProfileRepositoryFacade using pgxpool.
type PgxRateProfileRepository struct {
	BaseRepository
}

// NewPgxRateProfileRepository creates a new PgxRateProfileRepository.
func NewPgxRateProfileRepository(db *pgxpool.Pool) *PgxRateProfileRepository {
	return &PgxRateProfileRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SaveRateProfile inserts a new profile row.
func (r *PgxRateProfileRepository) SaveRateProfile(ctx context.Context, profile domain.RateProfile) error {
	modelProfile := mapping.ToModelRateProfile(profile)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO candidate_rate_profiles (`+rateProfileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		modelProfile.ProfileID, modelProfile.OwnerID, modelProfile.CandidateID,
		modelProfile.BaseAmount, modelProfile.BaseCurrency, modelProfile.RatePeriod,
		modelProfile.RateRUB, modelProfile.RateUSD, modelProfile.RateEUR, modelProfile.RateBYN,
		modelProfile.RatesCalculatedAt, modelProfile.SnapshotID,
		modelProfile.CreatedAt, modelProfile.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save rate profile", err)
	}
	return nil
}

// FindRateProfileByID retrieves a profile by its ID.
func (r *PgxRateProfileRepository) FindRateProfileByID(ctx context.Context, profileID string) (*domain.RateProfile, error) {
	query := `
		SELECT ` + rateProfileColumns + `
		FROM candidate_rate_profiles
		WHERE profile_id = $1;
	`

	modelProfile, err := scanRateProfileRow(r.Pool.QueryRow(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("rate profile with ID " + profileID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get rate profile by ID", err)
	}

	domainProfile := mapping.ToDomainRateProfile(modelProfile)
	return &domainProfile, nil
}

// ListRateProfiles retrieves profiles, optionally scoped to one owner.
func (r *PgxRateProfileRepository) ListRateProfiles(ctx context.Context, ownerID *string) ([]domain.RateProfile, error) {
	query := `
		SELECT ` + rateProfileColumns + `
		FROM candidate_rate_profiles
	`
	args := []interface{}{}
	if ownerID != nil {
		query += ` WHERE owner_id = $1`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list rate profiles", err)
	}
	defer rows.Close()

	var profiles []domain.RateProfile
	for rows.Next() {
		modelProfile, err := scanRateProfileRows(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan rate profile", err)
		}
		profiles = append(profiles, mapping.ToDomainRateProfile(modelProfile))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating rate profiles", err)
	}

	return profiles, nil
}

// UpdateBaseRate updates the profile's base fields and clears the cached
// values in the same statement. A cache computed for the old base must never
// survive a base change, so the cache stays empty until the recalculation
// that follows repopulates it.
func (r *PgxRateProfileRepository) UpdateBaseRate(ctx context.Context, profileID string, amount decimal.Decimal, currency domain.CurrencyCode, period domain.RatePeriod, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE candidate_rate_profiles
		SET base_amount = $1, base_currency = $2, rate_period = $3, last_updated_at = $4,
		    rate_rub = NULL, rate_usd = NULL, rate_eur = NULL, rate_byn = NULL,
		    rates_calculated_at = NULL, snapshot_id = NULL
		WHERE profile_id = $5`,
		amount, string(currency), string(period), updatedAt, profileID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update base rate", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("rate profile with ID " + profileID + " not found")
	}
	return nil
}

// UpdateCachedRates writes all four cached values, the snapshot reference and
// the calculation timestamp in one statement, so a concurrent reader sees
// either the old cache or the new one, never a mix.
func (r *PgxRateProfileRepository) UpdateCachedRates(ctx context.Context, profileID string, rates domain.CachedRates, snapshotID string, calculatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE candidate_rate_profiles
		SET rate_rub = $1, rate_usd = $2, rate_eur = $3, rate_byn = $4,
		    rates_calculated_at = $5, snapshot_id = $6, last_updated_at = $5
		WHERE profile_id = $7`,
		rates.RUB, rates.USD, rates.EUR, rates.BYN,
		calculatedAt, snapshotID, profileID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update cached rates", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("rate profile with ID " + profileID + " not found")
	}
	return nil
}

func scanRateProfileRow(row pgx.Row) (models.RateProfile, error) {
	var m models.RateProfile
	err := row.Scan(
		&m.ProfileID, &m.OwnerID, &m.CandidateID,
		&m.BaseAmount, &m.BaseCurrency, &m.RatePeriod,
		&m.RateRUB, &m.RateUSD, &m.RateEUR, &m.RateBYN,
		&m.RatesCalculatedAt, &m.SnapshotID,
		&m.CreatedAt, &m.LastUpdatedAt,
	)
	return m, err
}

func scanRateProfileRows(rows pgx.Rows) (models.RateProfile, error) {
	var m models.RateProfile
	err := rows.Scan(
		&m.ProfileID, &m.OwnerID, &m.CandidateID,
		&m.BaseAmount, &m.BaseCurrency, &m.RatePeriod,
		&m.RateRUB, &m.RateUSD, &m.RateEUR, &m.RateBYN,
		&m.RatesCalculatedAt, &m.SnapshotID,
		&m.CreatedAt, &m.LastUpdatedAt,
	)
	return m, err
}
