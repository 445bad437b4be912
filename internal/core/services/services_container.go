package services

import (
	"log/slog"

	"github.com/hrforge/candidate_rates_service/internal/adapters/ratesource"
	portsrepo "github.com/hrforge/candidate_rates_service/internal/core/ports/repositories"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, fetcher ratesource.Fetcher, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Converter = NewConversionService()
	container.Snapshots = NewSnapshotService(repos.SnapshotRepo, fetcher, logger)
	container.RateCache = NewRateCacheService(repos.RateProfileRepo, repos.SnapshotRepo, container.Converter)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.ConverterSvc          = (*conversionService)(nil)
	_ portssvc.RateSnapshotSvcFacade = (*snapshotService)(nil)
	_ portssvc.RateCacheSvcFacade    = (*rateCacheService)(nil)
)
