package driving

import (
	"context"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
)

// Library is the document service the CLI and TUI consume. It routes every
// operation to the local or remote backend depending on authentication
// state; callers never see which backend served them.
type Library interface {
	// Create ingests text: segments it, partitions the tokens and stores
	// document, chunks and initial reading state atomically. Empty
	// content is refused with domain.ErrInvalidInput.
	Create(ctx context.Context, content, title string) (*domain.Document, error)

	// Get retrieves document metadata by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents with progress, most recent first.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Update changes the title and optionally replaces the content,
	// re-tokenising and resetting the reading position.
	Update(ctx context.Context, id, title string, content *string) (*domain.Document, error)

	// Delete removes a document with its chunks and reading state.
	Delete(ctx context.Context, id string) error

	// GetChunk fetches one storage chunk.
	GetChunk(ctx context.Context, id string, index int) (*domain.Chunk, error)

	// GetReadingState returns the reading state, defaulted when absent.
	GetReadingState(ctx context.Context, id string) (*domain.ReadingState, error)

	// UpdateReadingState persists a partial reading-state update.
	UpdateReadingState(ctx context.Context, id string, update domain.ReadingStateUpdate) (*domain.ReadingState, error)

	// GetContent returns the raw text. Returns domain.ErrContentUnavailable
	// for documents whose content was never cached on this device.
	GetContent(ctx context.Context, id string) (string, error)
}
