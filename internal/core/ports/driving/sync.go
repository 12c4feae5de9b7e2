package driving

import (
	"context"
	"time"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
)

// SyncManager reconciles the local store with the remote account using
// last-write-wins, and publishes its state as an observable feed.
type SyncManager interface {
	// SyncAll uploads queued local documents, then downloads and merges
	// the remote document list. Idempotent under concurrent invocation:
	// a call arriving while a sync runs returns an empty result.
	SyncAll(ctx context.Context) (*SyncResult, error)

	// SyncDocument uploads a single document on demand, without running
	// the download phase. Returns domain.ErrSyncInProgress while a batch
	// pass runs.
	SyncDocument(ctx context.Context, id string) error

	// DownloadChunk fetches a chunk for a remote-origin document and
	// caches it locally. Lazy: called on first read, never eagerly.
	DownloadChunk(ctx context.Context, id string, index int) (*domain.Chunk, error)

	// Subscribe registers a listener for state changes. The current state
	// is replayed to the listener immediately. The returned function
	// removes the listener.
	Subscribe(fn func(SyncSnapshot)) (unsubscribe func())

	// Snapshot returns the current sync state.
	Snapshot() SyncSnapshot

	// SetOnline flips the connectivity flag consulted by SyncAll.
	SetOnline(online bool)
}

// SyncSnapshot is one observation of the sync manager's state, delivered
// at least on every phase transition.
type SyncSnapshot struct {
	// IsOnline reports connectivity as last observed.
	IsOnline bool

	// IsSyncing is true while a sync pass runs.
	IsSyncing bool

	// LastSync is when the last pass finished, zero if never.
	LastSync time.Time

	// PendingCount is how many documents await upload.
	PendingCount int

	// Err is a short aggregate message ("N errors"), empty when the last
	// pass was clean.
	Err string
}

// SyncResult summarises one sync pass.
type SyncResult struct {
	// Uploaded counts documents pushed to the remote account.
	Uploaded int

	// Downloaded counts remote records inserted or refreshed locally.
	Downloaded int

	// Errors holds per-document failures; one document's failure never
	// aborts the batch.
	Errors []SyncError
}

// SyncError records a single document's failure within a batch.
type SyncError struct {
	DocID string
	Title string
	Err   error
}
