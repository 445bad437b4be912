package repositories

// RepositoryProvider bundles every repository the service layer needs.
type RepositoryProvider struct {
	SnapshotRepo    SnapshotRepositoryFacade
	RateProfileRepo RateProfileRepositoryFacade
}
