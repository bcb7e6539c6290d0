package sync

// FeedSyncStats are the in-memory counters of one reconciliation run. After a
// rollback they describe what the run attempted, not what is persisted.
type FeedSyncStats struct {
	ProductsTotal         int
	ProductsCreated       int
	ProductsUpdated       int
	ProductsUnchanged     int
	ProductsRemoved       int
	ProductsSkipped       int
	VariationsCreated     int
	VariationsUpdated     int
	VariationsDeactivated int
}

type FeedSyncResult struct {
	Success bool
	Error   error
	Stats   FeedSyncStats
}

// WooSyncStats are the counters of one push run. Errors counts per-item batch
// failures, which do not abort the run.
type WooSyncStats struct {
	ProductsCreated   int
	ProductsUpdated   int
	VariationsCreated int
	VariationsUpdated int
	MappingsHealed    int
	Errors            int
}

type WooSyncResult struct {
	Success bool
	Error   error
	Stats   WooSyncStats
}
