package cli

import (
	"context"
	"time"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driving"
)

// setupTestServices injects mock services and returns a cleanup function
// restoring the previous wiring.
func setupTestServices() func() {
	oldLibrary := libraryService
	oldSync := syncManager
	oldInit := initialised

	libraryService = &mockLibrary{}
	syncManager = &mockSyncManager{}
	initialised = true

	return func() {
		libraryService = oldLibrary
		syncManager = oldSync
		initialised = oldInit
	}
}

var testDocTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testDocument() *domain.Document {
	return &domain.Document{
		ID:         "doc-1",
		Title:      "Test Document",
		TokenCount: 120,
		ChunkCount: 1,
		HasContent: true,
		Visibility: domain.VisibilityPrivate,
		SyncStatus: domain.SyncStatusLocal,
		CreatedAt:  testDocTime,
		UpdatedAt:  testDocTime,
	}
}

// mockLibrary serves a single fixed document.
type mockLibrary struct {
	created   []string
	updated   []string
	deleted   []string
	getErr    error
	listEmpty bool
}

var _ driving.Library = (*mockLibrary)(nil)

func (m *mockLibrary) Create(_ context.Context, content, title string) (*domain.Document, error) {
	m.created = append(m.created, content)
	doc := testDocument()
	if title != "" {
		doc.Title = title
	}
	return doc, nil
}

func (m *mockLibrary) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	doc := testDocument()
	doc.ID = id
	return doc, nil
}

func (m *mockLibrary) List(_ context.Context) ([]domain.DocumentSummary, error) {
	if m.listEmpty {
		return nil, nil
	}
	return []domain.DocumentSummary{
		{Document: *testDocument(), TokenIndex: 60, Progress: 0.5},
	}, nil
}

func (m *mockLibrary) Update(_ context.Context, id, title string, content *string) (*domain.Document, error) {
	m.updated = append(m.updated, id)
	doc := testDocument()
	doc.ID = id
	if title != "" {
		doc.Title = title
	}
	return doc, nil
}

func (m *mockLibrary) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockLibrary) GetChunk(_ context.Context, id string, index int) (*domain.Chunk, error) {
	return &domain.Chunk{DocID: id, Index: index, Tokens: []domain.Token{{Text: "word"}}}, nil
}

func (m *mockLibrary) GetReadingState(_ context.Context, id string) (*domain.ReadingState, error) {
	state := domain.DefaultReadingState(id)
	return &state, nil
}

func (m *mockLibrary) UpdateReadingState(_ context.Context, id string, _ domain.ReadingStateUpdate) (*domain.ReadingState, error) {
	state := domain.DefaultReadingState(id)
	return &state, nil
}

func (m *mockLibrary) GetContent(_ context.Context, _ string) (string, error) {
	return "This is the content of the test document.", nil
}

// mockSyncManager reports a clean sync of one uploaded document.
type mockSyncManager struct {
	syncedDocs []string
	syncAllErr error
}

var _ driving.SyncManager = (*mockSyncManager)(nil)

func (m *mockSyncManager) SyncAll(_ context.Context) (*driving.SyncResult, error) {
	if m.syncAllErr != nil {
		return nil, m.syncAllErr
	}
	return &driving.SyncResult{Uploaded: 1, Downloaded: 2}, nil
}

func (m *mockSyncManager) SyncDocument(_ context.Context, id string) error {
	m.syncedDocs = append(m.syncedDocs, id)
	return nil
}

func (m *mockSyncManager) DownloadChunk(_ context.Context, id string, index int) (*domain.Chunk, error) {
	return &domain.Chunk{DocID: id, Index: index}, nil
}

func (m *mockSyncManager) Subscribe(fn func(driving.SyncSnapshot)) func() {
	fn(driving.SyncSnapshot{})
	return func() {}
}

func (m *mockSyncManager) Snapshot() driving.SyncSnapshot {
	return driving.SyncSnapshot{IsOnline: true}
}

func (m *mockSyncManager) SetOnline(bool) {}
