package pgsql

import (
	portsrepo "github.com/hrforge/candidate_rates_service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository onto one pool.
func NewRepositoryProvider(db *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SnapshotRepo:    NewPgxSnapshotRepository(db),
		RateProfileRepo: NewPgxRateProfileRepository(db),
	}
}
