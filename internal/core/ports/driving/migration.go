package driving

import "context"

// MigrationService moves anonymous local documents into a newly
// authenticated account, exactly once per identity.
type MigrationService interface {
	// HasLocalDocuments reports whether any anonymous documents exist.
	HasLocalDocuments(ctx context.Context) (bool, error)

	// Migrate transfers every local document to the remote account.
	// Repeat invocations for an already-migrated identity are no-ops
	// returning zero counts. The local store is cleared only when every
	// document transferred; any failure leaves local data intact so the
	// next sign-in can retry.
	Migrate(ctx context.Context, identity string) (*MigrationResult, error)
}

// MigrationResult reports a migration pass. A partial failure is reported
// here, never raised as an error.
type MigrationResult struct {
	// Total is how many local documents were considered.
	Total int

	// Migrated is how many transferred successfully.
	Migrated int

	// Failed holds the titles of documents that could not transfer.
	Failed []string
}
