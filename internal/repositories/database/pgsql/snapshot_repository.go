package pgsql

import (
	"context"
	"errors"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/hrforge/candidate_rates_service/internal/models"
	"github.com/hrforge/candidate_rates_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const snapshotColumns = `snapshot_id, usd_rate, eur_rate, byn_rate, fetched_at, is_active, status, error_detail`

// PgxSnapshotRepository implements repositories.SnapshotRepositoryFacade using pgxpool.
// The snapshot table is append-only; the only mutation besides insert is the
// activation flip, and that always happens inside one transaction.
type PgxSnapshotRepository struct {
	BaseRepository
}

// NewPgxSnapshotRepository creates a new PgxSnapshotRepository.
func NewPgxSnapshotRepository(db *pgxpool.Pool) *PgxSnapshotRepository {
	return &PgxSnapshotRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// RecordSuccess inserts the snapshot and activates it, deactivating the
// previous active row in the same transaction. A partial unique index on
// is_active backs the single-active invariant against concurrent refreshes.
func (r *PgxSnapshotRepository) RecordSuccess(ctx context.Context, snapshot domain.RateSnapshot) error {
	modelSnapshot := mapping.ToModelRateSnapshot(snapshot)
	modelSnapshot.Active = true
	modelSnapshot.Status = string(domain.FetchSuccess)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE exchange_rate_snapshots SET is_active = FALSE WHERE is_active = TRUE`)
	if err == nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO exchange_rate_snapshots (`+snapshotColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			modelSnapshot.SnapshotID, modelSnapshot.USDRate, modelSnapshot.EURRate, modelSnapshot.BYNRate,
			modelSnapshot.FetchedAt, modelSnapshot.Active, modelSnapshot.Status, modelSnapshot.ErrorDetail,
		)
	}
	if err != nil {
		_ = r.Rollback(ctx, tx)
		return apperrors.NewAppError(500, "failed to record rate snapshot", err)
	}

	return r.Commit(ctx, tx)
}

// RecordFailure inserts an inactive audit row. The active snapshot, if any,
// stays authoritative.
func (r *PgxSnapshotRepository) RecordFailure(ctx context.Context, snapshot domain.RateSnapshot) error {
	modelSnapshot := mapping.ToModelRateSnapshot(snapshot)
	modelSnapshot.Active = false
	modelSnapshot.Status = string(domain.FetchError)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rate_snapshots (`+snapshotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		modelSnapshot.SnapshotID, modelSnapshot.USDRate, modelSnapshot.EURRate, modelSnapshot.BYNRate,
		modelSnapshot.FetchedAt, modelSnapshot.Active, modelSnapshot.Status, modelSnapshot.ErrorDetail,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record failed fetch", err)
	}
	return nil
}

// FindActive retrieves the single active snapshot.
func (r *PgxSnapshotRepository) FindActive(ctx context.Context) (*domain.RateSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM exchange_rate_snapshots
		WHERE is_active = TRUE
		LIMIT 1;
	`

	modelSnapshot, err := scanSnapshotRow(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAppError(404, "no active rate snapshot", apperrors.ErrNoRatesAvailable)
		}
		return nil, apperrors.NewAppError(500, "failed to find active snapshot", err)
	}

	domainSnapshot := mapping.ToDomainRateSnapshot(modelSnapshot)
	return &domainSnapshot, nil
}

// FindSnapshotByID retrieves a snapshot by its ID.
func (r *PgxSnapshotRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.RateSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM exchange_rate_snapshots
		WHERE snapshot_id = $1;
	`

	modelSnapshot, err := scanSnapshotRow(r.Pool.QueryRow(ctx, query, snapshotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("rate snapshot with ID " + snapshotID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get snapshot by ID", err)
	}

	domainSnapshot := mapping.ToDomainRateSnapshot(modelSnapshot)
	return &domainSnapshot, nil
}

// ListSnapshots retrieves the most recent fetch attempts, newest first.
func (r *PgxSnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]domain.RateSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + snapshotColumns + `
		FROM exchange_rate_snapshots
		ORDER BY fetched_at DESC
		LIMIT $1;
	`

	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list snapshots", err)
	}
	defer rows.Close()

	var snapshots []domain.RateSnapshot
	for rows.Next() {
		var modelSnapshot models.RateSnapshot
		err := rows.Scan(
			&modelSnapshot.SnapshotID, &modelSnapshot.USDRate, &modelSnapshot.EURRate, &modelSnapshot.BYNRate,
			&modelSnapshot.FetchedAt, &modelSnapshot.Active, &modelSnapshot.Status, &modelSnapshot.ErrorDetail,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan snapshot", err)
		}
		snapshots = append(snapshots, mapping.ToDomainRateSnapshot(modelSnapshot))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating snapshots", err)
	}

	return snapshots, nil
}

func scanSnapshotRow(row pgx.Row) (models.RateSnapshot, error) {
	var modelSnapshot models.RateSnapshot
	err := row.Scan(
		&modelSnapshot.SnapshotID, &modelSnapshot.USDRate, &modelSnapshot.EURRate, &modelSnapshot.BYNRate,
		&modelSnapshot.FetchedAt, &modelSnapshot.Active, &modelSnapshot.Status, &modelSnapshot.ErrorDetail,
	)
	return modelSnapshot, err
}
