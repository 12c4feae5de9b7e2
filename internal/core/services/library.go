package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driving"
	"github.com/pacerlabs/pacer-cli/internal/logger"
)

// Ensure Library implements the interface.
var _ driving.Library = (*Library)(nil)

// Library routes document operations to the local or remote backend.
// The backend is chosen once per call at this composition boundary;
// nothing downstream knows which one served it.
type Library struct {
	local  driven.LocalStore
	remote driven.DocumentStore
}

// NewLibrary creates a library over the local store. remote may be nil for
// anonymous use; when set, it becomes the active backend.
func NewLibrary(local driven.LocalStore, remote driven.DocumentStore) *Library {
	return &Library{local: local, remote: remote}
}

// Authenticated reports whether a remote backend is configured.
func (l *Library) Authenticated() bool {
	return l.remote != nil
}

// store picks the active backend.
func (l *Library) store() driven.DocumentStore {
	if l.remote != nil {
		return l.remote
	}
	return l.local
}

// Create ingests text into the active backend. When the remote backend is
// unreachable the document is stored locally and queued for upload, so
// creation never loses content to a network failure.
func (l *Library) Create(ctx context.Context, content, title string) (*domain.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("document content is empty: %w", domain.ErrInvalidInput)
	}

	if l.remote == nil {
		return l.local.CreateDocument(ctx, content, title)
	}

	doc, err := l.remote.CreateDocument(ctx, content, title)
	if err == nil {
		return doc, nil
	}
	logger.Warn("remote create failed, queueing locally: %v", err)

	doc, localErr := l.local.CreateDocument(ctx, content, title)
	if localErr != nil {
		return nil, fmt.Errorf("create document: %w", localErr)
	}
	if err := l.local.SetSyncResult(ctx, doc.ID, domain.SyncStatusPending, ""); err != nil {
		return nil, fmt.Errorf("queueing upload: %w", err)
	}
	doc.SyncStatus = domain.SyncStatusPending
	return doc, nil
}

// Get retrieves document metadata.
func (l *Library) Get(ctx context.Context, id string) (*domain.Document, error) {
	return l.store().GetDocument(ctx, id)
}

// List returns all documents with progress, most recent first.
func (l *Library) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	return l.store().ListDocuments(ctx)
}

// Update changes the title and optionally replaces the content.
// Editing a document whose raw text was never cached is refused.
func (l *Library) Update(ctx context.Context, id, title string, content *string) (*domain.Document, error) {
	if content != nil {
		_, available, err := l.store().GetContent(ctx, id)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, domain.ErrContentUnavailable
		}
	}
	return l.store().UpdateDocument(ctx, id, title, content)
}

// Delete removes a document with its chunks and reading state.
func (l *Library) Delete(ctx context.Context, id string) error {
	return l.store().DeleteDocument(ctx, id)
}

// GetChunk fetches one storage chunk through the active backend.
func (l *Library) GetChunk(ctx context.Context, id string, index int) (*domain.Chunk, error) {
	return l.store().GetChunk(ctx, id, index)
}

// GetReadingState returns the reading state, defaulted when absent.
func (l *Library) GetReadingState(ctx context.Context, id string) (*domain.ReadingState, error) {
	return l.store().GetReadingState(ctx, id)
}

// UpdateReadingState persists a partial reading-state update.
func (l *Library) UpdateReadingState(ctx context.Context, id string, update domain.ReadingStateUpdate) (*domain.ReadingState, error) {
	if update.TokenIndex != nil && *update.TokenIndex < 0 {
		return nil, fmt.Errorf("token index must not be negative: %w", domain.ErrInvalidInput)
	}
	if update.WPM != nil && *update.WPM <= 0 {
		return nil, fmt.Errorf("wpm must be positive: %w", domain.ErrInvalidInput)
	}
	if update.ChunkSize != nil && *update.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive: %w", domain.ErrInvalidInput)
	}
	return l.store().UpdateReadingState(ctx, id, update)
}

// GetContent returns the raw text, or domain.ErrContentUnavailable for
// documents without cached content.
func (l *Library) GetContent(ctx context.Context, id string) (string, error) {
	content, available, err := l.store().GetContent(ctx, id)
	if err != nil {
		return "", err
	}
	if !available {
		return "", domain.ErrContentUnavailable
	}
	return content, nil
}
