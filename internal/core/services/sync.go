package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driving"
	"github.com/pacerlabs/pacer-cli/internal/logger"
)

// Ensure SyncManager implements the interface.
var _ driving.SyncManager = (*SyncManager)(nil)

// SyncManager reconciles the local store with the remote account.
// Conflicts resolve by last-write-wins on UpdatedAt; equal timestamps keep
// the local copy so chunks are not invalidated for nothing.
type SyncManager struct {
	local  driven.LocalStore
	remote driven.DocumentStore

	// mu guards the snapshot and listener set. The guard-check-and-set on
	// IsSyncing happens under this mutex; phase work runs outside it.
	mu        sync.Mutex
	snapshot  driving.SyncSnapshot
	listeners map[int]func(driving.SyncSnapshot)
	nextID    int
}

// NewSyncManager creates a sync manager. It starts offline; the caller
// flips connectivity with SetOnline after probing the API.
func NewSyncManager(local driven.LocalStore, remote driven.DocumentStore) *SyncManager {
	return &SyncManager{
		local:     local,
		remote:    remote,
		listeners: make(map[int]func(driving.SyncSnapshot)),
	}
}

// Subscribe registers a listener and replays the current state to it.
func (m *SyncManager) Subscribe(fn func(driving.SyncSnapshot)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	current := m.snapshot
	m.mu.Unlock()

	fn(current)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Snapshot returns the current sync state.
func (m *SyncManager) Snapshot() driving.SyncSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// SetOnline flips the connectivity flag consulted by SyncAll.
func (m *SyncManager) SetOnline(online bool) {
	m.mu.Lock()
	m.snapshot.IsOnline = online
	m.mu.Unlock()
	m.publish()
}

// SyncAll uploads queued documents, then downloads and merges the remote
// list. A call arriving while a pass runs returns an empty result; a call
// while offline returns domain.ErrOffline without marking syncing.
func (m *SyncManager) SyncAll(ctx context.Context) (*driving.SyncResult, error) {
	m.mu.Lock()
	if !m.snapshot.IsOnline {
		m.mu.Unlock()
		return nil, domain.ErrOffline
	}
	if m.snapshot.IsSyncing {
		m.mu.Unlock()
		return &driving.SyncResult{}, nil
	}
	m.snapshot.IsSyncing = true
	m.snapshot.Err = ""
	m.mu.Unlock()
	m.publish()

	result := &driving.SyncResult{}

	m.uploadPhase(ctx, result)
	m.downloadPhase(ctx, result)

	pending, err := m.local.PendingCount(ctx)
	if err != nil {
		logger.Warn("counting pending documents: %v", err)
	}

	m.mu.Lock()
	m.snapshot.IsSyncing = false
	m.snapshot.LastSync = time.Now().UTC()
	m.snapshot.PendingCount = pending
	if n := len(result.Errors); n > 0 {
		m.snapshot.Err = fmt.Sprintf("%d errors", n)
	}
	m.mu.Unlock()
	m.publish()

	logger.Info("Sync complete: %d uploaded, %d downloaded, %d errors",
		result.Uploaded, result.Downloaded, len(result.Errors))
	return result, nil
}

// uploadPhase pushes every queued local document. One document's failure
// never blocks the rest of the batch.
func (m *SyncManager) uploadPhase(ctx context.Context, result *driving.SyncResult) {
	queued, err := m.local.ListBySyncStatus(ctx, domain.SyncStatusPending)
	if err != nil {
		result.Errors = append(result.Errors, driving.SyncError{Err: fmt.Errorf("list queued: %w", err)})
		return
	}

	for i := range queued {
		doc := &queued[i]
		if err := m.upload(ctx, doc); err != nil {
			logger.Debug("Upload failed for %s: %v", doc.ID, err)
			if serr := m.local.SetSyncResult(ctx, doc.ID, domain.SyncStatusError, ""); serr != nil {
				logger.Warn("recording upload failure for %s: %v", doc.ID, serr)
			}
			result.Errors = append(result.Errors, driving.SyncError{DocID: doc.ID, Title: doc.Title, Err: err})
			continue
		}
		result.Uploaded++
	}
}

// upload pushes a single document and records the outcome.
func (m *SyncManager) upload(ctx context.Context, doc *domain.Document) error {
	content, available, err := m.local.GetContent(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get content: %w", err)
	}
	if !available {
		return domain.ErrContentUnavailable
	}

	remoteDoc, err := m.remote.CreateDocument(ctx, content, doc.Title)
	if err != nil {
		return fmt.Errorf("remote create: %w", err)
	}

	if err := m.local.SetSyncResult(ctx, doc.ID, domain.SyncStatusSynced, remoteDoc.ID); err != nil {
		return fmt.Errorf("record sync result: %w", err)
	}
	return nil
}

// downloadPhase fetches the remote list and merges each entry into the
// local store under last-write-wins.
func (m *SyncManager) downloadPhase(ctx context.Context, result *driving.SyncResult) {
	summaries, err := m.remote.ListDocuments(ctx)
	if err != nil {
		result.Errors = append(result.Errors, driving.SyncError{Err: fmt.Errorf("list remote: %w", err)})
		return
	}

	now := time.Now().UTC()
	for i := range summaries {
		remote := &summaries[i].Document
		if err := m.merge(ctx, remote, now); err != nil {
			logger.Debug("Merge failed for %s: %v", remote.ID, err)
			result.Errors = append(result.Errors, driving.SyncError{DocID: remote.ID, Title: remote.Title, Err: err})
			continue
		}
		result.Downloaded++
	}
}

// merge reconciles one remote record against the local copy.
func (m *SyncManager) merge(ctx context.Context, remote *domain.Document, now time.Time) error {
	local, err := m.local.GetByRemoteID(ctx, remote.ID)
	if errors.Is(err, domain.ErrNotFound) {
		// Unknown here: insert a metadata-only record; chunks and content
		// are fetched lazily on first read.
		mirror := *remote
		mirror.HasContent = false
		mirror.SyncStatus = domain.SyncStatusSynced
		mirror.RemoteID = remote.ID
		mirror.LastSyncedAt = &now
		return m.local.UpsertRemote(ctx, &mirror)
	}
	if err != nil {
		return fmt.Errorf("lookup local: %w", err)
	}

	// Unpushed local changes take precedence until the next successful
	// upload.
	if local.SyncStatus == domain.SyncStatusPending || local.SyncStatus == domain.SyncStatusError {
		return nil
	}

	// Strict last-write-wins; an equal timestamp is a no-op so cached
	// chunks survive.
	if !remote.UpdatedAt.After(local.UpdatedAt) {
		return nil
	}

	// Token content may have changed remotely, so cached chunks are
	// stale. Drop them before the metadata overwrite; a crash between
	// the two must never leave stale chunks under the new metadata.
	if err := m.local.DeleteChunks(ctx, local.ID); err != nil {
		return fmt.Errorf("invalidate chunks: %w", err)
	}

	mirror := *remote
	mirror.ID = local.ID
	mirror.HasContent = local.HasContent
	mirror.SyncStatus = domain.SyncStatusSynced
	mirror.RemoteID = remote.ID
	mirror.LastSyncedAt = &now
	if err := m.local.UpsertRemote(ctx, &mirror); err != nil {
		return fmt.Errorf("overwrite local: %w", err)
	}
	return nil
}

// SyncDocument uploads one document on demand, without the download phase.
// Unlike the batch loop, failures propagate to the caller.
func (m *SyncManager) SyncDocument(ctx context.Context, id string) error {
	m.mu.Lock()
	online := m.snapshot.IsOnline
	syncing := m.snapshot.IsSyncing
	m.mu.Unlock()
	if !online {
		return domain.ErrOffline
	}
	// A running batch pass may already be uploading this document;
	// racing it could record conflicting sync results.
	if syncing {
		return domain.ErrSyncInProgress
	}

	doc, err := m.local.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := m.upload(ctx, doc); err != nil {
		if serr := m.local.SetSyncResult(ctx, id, domain.SyncStatusError, ""); serr != nil {
			logger.Warn("recording upload failure for %s: %v", id, serr)
		}
		return err
	}

	pending, err := m.local.PendingCount(ctx)
	if err == nil {
		m.mu.Lock()
		m.snapshot.PendingCount = pending
		m.mu.Unlock()
		m.publish()
	}
	return nil
}

// DownloadChunk fetches a chunk for a remote-origin document and caches it
// locally. Lazy: invoked on first read, never for the whole document.
func (m *SyncManager) DownloadChunk(ctx context.Context, id string, index int) (*domain.Chunk, error) {
	doc, err := m.local.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	remoteID := doc.RemoteID
	if remoteID == "" {
		remoteID = doc.ID
	}

	chunk, err := m.remote.GetChunk(ctx, remoteID, index)
	if err != nil {
		return nil, err
	}
	chunk.DocID = id

	if err := m.local.SaveChunk(ctx, chunk); err != nil {
		return nil, fmt.Errorf("cache chunk: %w", err)
	}
	return chunk, nil
}

// publish delivers the current snapshot to every listener. Listeners run
// outside the manager lock.
func (m *SyncManager) publish() {
	m.mu.Lock()
	current := m.snapshot
	fns := make([]func(driving.SyncSnapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(current)
	}
}
