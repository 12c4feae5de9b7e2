package driven

import (
	"context"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
)

// DocumentStore is the document store contract. The local (SQLite) and
// remote (HTTP) backends implement identically observable behaviour; the
// composition layer selects one by authentication state.
type DocumentStore interface {
	// CreateDocument tokenises content and persists the document, all of
	// its chunks and an initial reading state as one atomic unit.
	CreateDocument(ctx context.Context, content, title string) (*domain.Document, error)

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents with reading progress, sorted by
	// most-recent activity descending.
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)

	// UpdateDocument changes the title and, when content is non-nil,
	// replaces the content: all chunks are re-tokenised and the reading
	// position resets to zero, preserving the speed preference.
	UpdateDocument(ctx context.Context, id, title string, content *string) (*domain.Document, error)

	// DeleteDocument removes the document, all chunks and the reading
	// state together. Partial deletion is an invariant violation.
	DeleteDocument(ctx context.Context, id string) error

	// GetChunk retrieves one storage chunk by index. Returns
	// domain.ErrNotFound when the index is out of range or the chunk is
	// not yet available locally.
	GetChunk(ctx context.Context, id string, index int) (*domain.Chunk, error)

	// GetReadingState returns the persisted reading state, or the default
	// state when none has been saved yet.
	GetReadingState(ctx context.Context, id string) (*domain.ReadingState, error)

	// UpdateReadingState applies a partial update and returns the
	// persisted state.
	UpdateReadingState(ctx context.Context, id string, update domain.ReadingStateUpdate) (*domain.ReadingState, error)

	// GetContent returns the raw text and whether it is resident.
	// Remote-origin documents may have tokens but no cached content.
	GetContent(ctx context.Context, id string) (string, bool, error)
}

// LocalStore is the on-device backend. Beyond the shared contract it
// exposes the surface the sync manager and migration service need.
type LocalStore interface {
	DocumentStore

	// ListBySyncStatus returns local documents in any of the given states.
	ListBySyncStatus(ctx context.Context, statuses ...domain.SyncStatus) ([]domain.Document, error)

	// GetByRemoteID finds the local document tracking a remote record.
	// Returns domain.ErrNotFound when the remote document is unknown here.
	GetByRemoteID(ctx context.Context, remoteID string) (*domain.Document, error)

	// SetSyncResult records the outcome of an upload attempt.
	SetSyncResult(ctx context.Context, id string, status domain.SyncStatus, remoteID string) error

	// UpsertRemote inserts or overwrites a metadata-only record mirroring
	// a remote document. Cached content and chunks are not touched.
	UpsertRemote(ctx context.Context, doc *domain.Document) error

	// SaveChunk caches a downloaded chunk.
	SaveChunk(ctx context.Context, chunk *domain.Chunk) error

	// DeleteChunks invalidates every cached chunk for a document without
	// touching its metadata or reading state.
	DeleteChunks(ctx context.Context, id string) error

	// PendingCount returns how many documents are queued for upload.
	PendingCount(ctx context.Context) (int, error)

	// Clear removes every document, chunk and reading state. Used by
	// migration after all documents transferred successfully.
	Clear(ctx context.Context) error
}

// MigrationStateStore persists which identities have already had their
// anonymous documents migrated, so repeat sign-ins are no-ops.
type MigrationStateStore interface {
	// IsMigrated reports whether the identity was migrated before.
	IsMigrated(ctx context.Context, identity string) (bool, error)

	// MarkMigrated records a completed migration for the identity.
	MarkMigrated(ctx context.Context, identity string) error
}
