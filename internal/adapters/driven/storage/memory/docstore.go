// Package memory provides in-memory implementations of the driven storage
// ports. They mirror the SQLite store's observable behaviour and are used
// in service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/segmenter"
)

// Ensure DocumentStore implements the interface.
var _ driven.LocalStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.LocalStore.
type DocumentStore struct {
	mu       sync.RWMutex
	docs     map[string]domain.Document
	contents map[string]string
	chunks   map[string]map[int][]domain.Token
	states   map[string]domain.ReadingState
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:     make(map[string]domain.Document),
		contents: make(map[string]string),
		chunks:   make(map[string]map[int][]domain.Token),
		states:   make(map[string]domain.ReadingState),
	}
}

// CreateDocument tokenises content and stores document, chunks and an
// initial reading state.
func (s *DocumentStore) CreateDocument(_ context.Context, content, title string) (*domain.Document, error) {
	tokens := segmenter.Segment(content)
	chunks := segmenter.Partition(tokens, segmenter.DefaultChunkSize)

	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	now := time.Now().UTC()
	doc := domain.Document{
		ID:         uuid.New().String(),
		Title:      title,
		TokenCount: len(tokens),
		ChunkCount: len(chunks),
		HasContent: true,
		Visibility: domain.VisibilityPrivate,
		SyncStatus: domain.SyncStatusLocal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	s.contents[doc.ID] = content
	byIndex := make(map[int][]domain.Token, len(chunks))
	for i, c := range chunks {
		byIndex[i] = c
	}
	s.chunks[doc.ID] = byIndex
	state := domain.DefaultReadingState(doc.ID)
	state.UpdatedAt = now
	s.states[doc.ID] = state

	return &doc, nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents with progress, most recently active
// first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summaries []domain.DocumentSummary
	for id := range s.docs {
		doc := s.docs[id]
		summary := domain.DocumentSummary{Document: doc}
		if state, ok := s.states[id]; ok {
			summary.TokenIndex = state.TokenIndex
			if doc.TokenCount > 0 {
				summary.Progress = float64(state.TokenIndex) / float64(doc.TokenCount)
			}
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return s.activity(summaries[i].ID).After(s.activity(summaries[j].ID))
	})
	return summaries, nil
}

func (s *DocumentStore) activity(id string) time.Time {
	if state, ok := s.states[id]; ok && state.UpdatedAt.After(s.docs[id].UpdatedAt) {
		return state.UpdatedAt
	}
	return s.docs[id].UpdatedAt
}

// UpdateDocument changes the title and optionally replaces the content.
func (s *DocumentStore) UpdateDocument(_ context.Context, id, title string, content *string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	if title != "" {
		doc.Title = title
	}
	doc.UpdatedAt = time.Now().UTC()
	if doc.SyncStatus == domain.SyncStatusSynced || doc.SyncStatus == domain.SyncStatusError {
		doc.SyncStatus = domain.SyncStatusPending
	}

	if content != nil {
		tokens := segmenter.Segment(*content)
		chunks := segmenter.Partition(tokens, segmenter.DefaultChunkSize)
		doc.TokenCount = len(tokens)
		doc.ChunkCount = len(chunks)
		doc.HasContent = true

		s.contents[id] = *content
		byIndex := make(map[int][]domain.Token, len(chunks))
		for i, c := range chunks {
			byIndex[i] = c
		}
		s.chunks[id] = byIndex

		state, ok := s.states[id]
		if !ok {
			state = domain.DefaultReadingState(id)
		}
		state.TokenIndex = 0
		state.UpdatedAt = doc.UpdatedAt
		s.states[id] = state
	}

	s.docs[id] = doc
	return &doc, nil
}

// DeleteDocument removes the document, its chunks and its reading state.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	delete(s.contents, id)
	delete(s.chunks, id)
	delete(s.states, id)
	return nil
}

// GetChunk retrieves one storage chunk by index.
func (s *DocumentStore) GetChunk(_ context.Context, id string, index int) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens, ok := s.chunks[id][index]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Chunk{DocID: id, Index: index, Tokens: tokens}, nil
}

// GetReadingState returns the persisted or default reading state.
func (s *DocumentStore) GetReadingState(_ context.Context, id string) (*domain.ReadingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.docs[id]; !ok {
		return nil, domain.ErrNotFound
	}
	state, ok := s.states[id]
	if !ok {
		state = domain.DefaultReadingState(id)
	}
	return &state, nil
}

// UpdateReadingState applies a partial update.
func (s *DocumentStore) UpdateReadingState(_ context.Context, id string, update domain.ReadingStateUpdate) (*domain.ReadingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return nil, domain.ErrNotFound
	}

	state, ok := s.states[id]
	if !ok {
		state = domain.DefaultReadingState(id)
	}
	if update.TokenIndex != nil {
		state.TokenIndex = *update.TokenIndex
	}
	if update.WPM != nil {
		state.WPM = *update.WPM
	}
	if update.ChunkSize != nil {
		state.ChunkSize = *update.ChunkSize
	}
	state.UpdatedAt = time.Now().UTC()
	s.states[id] = state
	return &state, nil
}

// GetContent returns the raw text and whether it is resident.
func (s *DocumentStore) GetContent(_ context.Context, id string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.docs[id]; !ok {
		return "", false, domain.ErrNotFound
	}
	content, ok := s.contents[id]
	return content, ok, nil
}

// ListBySyncStatus returns documents in any of the given sync states.
func (s *DocumentStore) ListBySyncStatus(_ context.Context, statuses ...domain.SyncStatus) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[domain.SyncStatus]struct{}, len(statuses))
	for _, st := range statuses {
		wanted[st] = struct{}{}
	}

	var docs []domain.Document
	for id := range s.docs {
		if _, ok := wanted[s.docs[id].SyncStatus]; ok {
			docs = append(docs, s.docs[id])
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.Before(docs[j].UpdatedAt)
	})
	return docs, nil
}

// GetByRemoteID finds the local document tracking a remote record.
func (s *DocumentStore) GetByRemoteID(_ context.Context, remoteID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.docs {
		doc := s.docs[id]
		if doc.RemoteID == remoteID || doc.ID == remoteID {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SetSyncResult records the outcome of an upload attempt.
func (s *DocumentStore) SetSyncResult(_ context.Context, id string, status domain.SyncStatus, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.SyncStatus = status
	if status == domain.SyncStatusSynced {
		doc.RemoteID = remoteID
		now := time.Now().UTC()
		doc.LastSyncedAt = &now
	}
	s.docs[id] = doc
	return nil
}

// UpsertRemote inserts or overwrites a metadata-only record.
func (s *DocumentStore) UpsertRemote(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *doc
	if existing, ok := s.docs[doc.ID]; ok {
		stored.HasContent = existing.HasContent
	} else {
		stored.HasContent = false
	}
	s.docs[doc.ID] = stored
	return nil
}

// SaveChunk caches a downloaded chunk.
func (s *DocumentStore) SaveChunk(_ context.Context, chunk *domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chunks[chunk.DocID] == nil {
		s.chunks[chunk.DocID] = make(map[int][]domain.Token)
	}
	s.chunks[chunk.DocID][chunk.Index] = chunk.Tokens
	return nil
}

// DeleteChunks invalidates every cached chunk for a document.
func (s *DocumentStore) DeleteChunks(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, id)
	return nil
}

// ChunkCount reports how many chunks are cached for a document.
// Test helper.
func (s *DocumentStore) ChunkCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[id])
}

// PendingCount returns how many documents are queued for upload.
func (s *DocumentStore) PendingCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for id := range s.docs {
		if s.docs[id].SyncStatus == domain.SyncStatusPending {
			count++
		}
	}
	return count, nil
}

// Clear removes every document, chunk and reading state.
func (s *DocumentStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]domain.Document)
	s.contents = make(map[string]string)
	s.chunks = make(map[string]map[int][]domain.Token)
	s.states = make(map[string]domain.ReadingState)
	return nil
}

// Ensure MigrationStateStore implements the interface.
var _ driven.MigrationStateStore = (*MigrationStateStore)(nil)

// MigrationStateStore is an in-memory migrated-identities set.
type MigrationStateStore struct {
	mu         sync.Mutex
	identities map[string]struct{}
}

// NewMigrationStateStore creates a new in-memory migration state store.
func NewMigrationStateStore() *MigrationStateStore {
	return &MigrationStateStore{identities: make(map[string]struct{})}
}

// IsMigrated reports whether the identity was migrated before.
func (s *MigrationStateStore) IsMigrated(_ context.Context, identity string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.identities[identity]
	return ok, nil
}

// MarkMigrated records a completed migration for the identity.
func (s *MigrationStateStore) MarkMigrated(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity] = struct{}{}
	return nil
}
