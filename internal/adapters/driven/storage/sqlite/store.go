package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/segmenter"
)

// titleWordLimit caps how many words a derived title takes from content.
const titleWordLimit = 8

// Store is a unified SQLite-based storage that provides the local document
// store and the migration guard set through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pacer/data/library.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pacer", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "library.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns the local document store backed by this store.
func (s *Store) DocumentStore() driven.LocalStore {
	return &localStore{store: s}
}

// MigrationStateStore returns the migrated-identities set backed by this store.
func (s *Store) MigrationStateStore() driven.MigrationStateStore {
	return &migrationStateStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Local Document Store ====================

// localStore implements driven.LocalStore.
type localStore struct {
	store *Store
}

var _ driven.LocalStore = (*localStore)(nil)

const documentColumns = `id, title, content, has_content, token_count, chunk_count,
	visibility, share_token, expires_at, sync_status, remote_id, last_synced_at,
	created_at, updated_at`

// CreateDocument tokenises content and writes the document, all chunks and
// the initial reading state in one transaction. A document is never visible
// without chunk 0 when it has tokens.
func (s *localStore) CreateDocument(ctx context.Context, content, title string) (*domain.Document, error) {
	tokens := segmenter.Segment(content)
	chunks := segmenter.Partition(tokens, segmenter.DefaultChunkSize)

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:         uuid.New().String(),
		Title:      deriveTitle(title, content),
		TokenCount: len(tokens),
		ChunkCount: len(chunks),
		HasContent: true,
		Visibility: domain.VisibilityPrivate,
		SyncStatus: domain.SyncStatusLocal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents
			(id, title, content, has_content, token_count, chunk_count,
			 visibility, sync_status, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Title, content, doc.TokenCount, doc.ChunkCount,
		string(doc.Visibility), string(doc.SyncStatus), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	if err := insertChunks(ctx, tx, doc.ID, chunks); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reading_states (doc_id, token_index, wpm, chunk_size, updated_at)
		VALUES (?, 0, ?, ?, ?)
	`, doc.ID, domain.DefaultWPM, domain.DefaultDisplayChunkSize, now)
	if err != nil {
		return nil, fmt.Errorf("inserting reading state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return doc, nil
}

// GetDocument retrieves a document by ID.
func (s *localStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// ListDocuments returns all documents with reading progress, most recently
// active first.
func (s *localStore) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT d.id, d.title, d.content, d.has_content, d.token_count, d.chunk_count,
			d.visibility, d.share_token, d.expires_at, d.sync_status, d.remote_id,
			d.last_synced_at, d.created_at, d.updated_at,
			COALESCE(r.token_index, 0)
		FROM documents d
		LEFT JOIN reading_states r ON r.doc_id = d.id
		ORDER BY COALESCE(r.updated_at, d.updated_at) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var summaries []domain.DocumentSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, tokenIndex, err := scanDocumentWithProgress(rows)
		if err != nil {
			return nil, err
		}

		summary := domain.DocumentSummary{Document: *doc, TokenIndex: tokenIndex}
		if doc.TokenCount > 0 {
			summary.Progress = float64(tokenIndex) / float64(doc.TokenCount)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return summaries, nil
}

// UpdateDocument changes the title and optionally replaces the content.
// A content change re-tokenises: old chunks are range-deleted and new ones
// inserted in the same transaction, so old and new chunks never coexist,
// and the reading position resets to zero keeping the speed preference.
func (s *localStore) UpdateDocument(ctx context.Context, id, title string, content *string) (*domain.Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if title != "" {
		doc.Title = title
	}
	doc.UpdatedAt = now
	// An already-synced document needs re-upload after any edit.
	if doc.SyncStatus == domain.SyncStatusSynced || doc.SyncStatus == domain.SyncStatusError {
		doc.SyncStatus = domain.SyncStatusPending
	}

	if content == nil {
		_, err = s.store.db.ExecContext(ctx, `
			UPDATE documents SET title = ?, sync_status = ?, updated_at = ? WHERE id = ?
		`, doc.Title, string(doc.SyncStatus), doc.UpdatedAt, id)
		if err != nil {
			return nil, fmt.Errorf("updating document: %w", err)
		}
		return doc, nil
	}

	tokens := segmenter.Segment(*content)
	chunks := segmenter.Partition(tokens, segmenter.DefaultChunkSize)
	doc.TokenCount = len(tokens)
	doc.ChunkCount = len(chunks)
	doc.HasContent = true

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", id); err != nil {
		return nil, fmt.Errorf("deleting old chunks: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE documents
		SET title = ?, content = ?, has_content = 1, token_count = ?,
			chunk_count = ?, sync_status = ?, updated_at = ?
		WHERE id = ?
	`, doc.Title, *content, doc.TokenCount, doc.ChunkCount,
		string(doc.SyncStatus), doc.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}

	if err := insertChunks(ctx, tx, id, chunks); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reading_states (doc_id, token_index, wpm, chunk_size, updated_at)
		VALUES (?, 0, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			token_index = 0,
			updated_at = excluded.updated_at
	`, id, domain.DefaultWPM, domain.DefaultDisplayChunkSize, now)
	if err != nil {
		return nil, fmt.Errorf("resetting reading state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes the document, its chunks and its reading state
// in one transaction.
func (s *localStore) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reading_states WHERE doc_id = ?", id); err != nil {
		return fmt.Errorf("deleting reading state: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunk retrieves one storage chunk by index.
func (s *localStore) GetChunk(ctx context.Context, id string, index int) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT tokens FROM chunks WHERE doc_id = ? AND chunk_index = ?
	`, id, index)

	var tokensJSON string
	if err := row.Scan(&tokensJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	var tokens []domain.Token
	if err := json.Unmarshal([]byte(tokensJSON), &tokens); err != nil {
		return nil, fmt.Errorf("unmarshaling tokens: %w", err)
	}

	return &domain.Chunk{DocID: id, Index: index, Tokens: tokens}, nil
}

// GetReadingState returns the persisted reading state, or the default when
// none has been saved yet.
func (s *localStore) GetReadingState(ctx context.Context, id string) (*domain.ReadingState, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	row := s.store.db.QueryRowContext(ctx, `
		SELECT doc_id, token_index, wpm, chunk_size, updated_at
		FROM reading_states WHERE doc_id = ?
	`, id)

	var state domain.ReadingState
	if err := row.Scan(&state.DocID, &state.TokenIndex, &state.WPM, &state.ChunkSize, &state.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			state = domain.DefaultReadingState(id)
			return &state, nil
		}
		return nil, fmt.Errorf("scanning reading state: %w", err)
	}
	return &state, nil
}

// UpdateReadingState applies a partial update. The record is overwritten,
// never appended.
func (s *localStore) UpdateReadingState(ctx context.Context, id string, update domain.ReadingStateUpdate) (*domain.ReadingState, error) {
	state, err := s.GetReadingState(ctx, id)
	if err != nil {
		return nil, err
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

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO reading_states (doc_id, token_index, wpm, chunk_size, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			token_index = excluded.token_index,
			wpm = excluded.wpm,
			chunk_size = excluded.chunk_size,
			updated_at = excluded.updated_at
	`, state.DocID, state.TokenIndex, state.WPM, state.ChunkSize, state.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving reading state: %w", err)
	}
	return state, nil
}

// GetContent returns the raw text and whether it is resident.
func (s *localStore) GetContent(ctx context.Context, id string) (string, bool, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT content, has_content FROM documents WHERE id = ?", id)

	var content sql.NullString
	var hasContent bool
	if err := row.Scan(&content, &hasContent); err != nil {
		if err == sql.ErrNoRows {
			return "", false, domain.ErrNotFound
		}
		return "", false, fmt.Errorf("scanning content: %w", err)
	}
	return content.String, hasContent, nil
}

// ListBySyncStatus returns documents in any of the given sync states.
func (s *localStore) ListBySyncStatus(ctx context.Context, statuses ...domain.SyncStatus) ([]domain.Document, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(statuses))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(statuses))
	for i, st := range statuses {
		args[i] = string(st)
	}

	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE sync_status IN (`+placeholders+`)
		 ORDER BY updated_at ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents by sync status: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// GetByRemoteID finds the local document tracking a remote record.
func (s *localStore) GetByRemoteID(ctx context.Context, remoteID string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE remote_id = ? OR id = ?`,
		remoteID, remoteID)
	return scanDocument(row)
}

// SetSyncResult records the outcome of an upload attempt.
func (s *localStore) SetSyncResult(ctx context.Context, id string, status domain.SyncStatus, remoteID string) error {
	if status == domain.SyncStatusSynced {
		_, err := s.store.db.ExecContext(ctx, `
			UPDATE documents SET sync_status = ?, remote_id = ?, last_synced_at = ?
			WHERE id = ?
		`, string(status), remoteID, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("recording sync result: %w", err)
		}
		return nil
	}

	_, err := s.store.db.ExecContext(ctx,
		"UPDATE documents SET sync_status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("recording sync result: %w", err)
	}
	return nil
}

// UpsertRemote inserts or overwrites a metadata-only record mirroring a
// remote document. Cached content stays untouched on overwrite.
func (s *localStore) UpsertRemote(ctx context.Context, doc *domain.Document) error {
	var expiresAt any
	if doc.ExpiresAt != nil {
		expiresAt = *doc.ExpiresAt
	}
	var lastSyncedAt any
	if doc.LastSyncedAt != nil {
		lastSyncedAt = *doc.LastSyncedAt
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents
			(id, title, has_content, token_count, chunk_count, visibility,
			 share_token, expires_at, sync_status, remote_id, last_synced_at,
			 created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			token_count = excluded.token_count,
			chunk_count = excluded.chunk_count,
			visibility = excluded.visibility,
			share_token = excluded.share_token,
			expires_at = excluded.expires_at,
			sync_status = excluded.sync_status,
			remote_id = excluded.remote_id,
			last_synced_at = excluded.last_synced_at,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, doc.TokenCount, doc.ChunkCount, string(doc.Visibility),
		nullString(doc.ShareToken), expiresAt, string(doc.SyncStatus),
		nullString(doc.RemoteID), lastSyncedAt, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting remote document: %w", err)
	}
	return nil
}

// SaveChunk caches a downloaded chunk.
func (s *localStore) SaveChunk(ctx context.Context, chunk *domain.Chunk) error {
	tokensJSON, err := json.Marshal(chunk.Tokens)
	if err != nil {
		return fmt.Errorf("marshalling tokens: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO chunks (doc_id, chunk_index, tokens)
		VALUES (?, ?, ?)
		ON CONFLICT(doc_id, chunk_index) DO UPDATE SET tokens = excluded.tokens
	`, chunk.DocID, chunk.Index, string(tokensJSON))
	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}
	return nil
}

// DeleteChunks invalidates every cached chunk for a document.
func (s *localStore) DeleteChunks(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// PendingCount returns how many documents are queued for upload.
func (s *localStore) PendingCount(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE sync_status = ?",
		string(domain.SyncStatusPending)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pending documents: %w", err)
	}
	return count, nil
}

// Clear removes every document, chunk and reading state.
func (s *localStore) Clear(ctx context.Context) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"chunks", "reading_states", "documents"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// exists fails with domain.ErrNotFound when the document is absent.
func (s *localStore) exists(ctx context.Context, id string) error {
	var one int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM documents WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	return nil
}

// ==================== Migration State Store ====================

// migrationStateStore implements driven.MigrationStateStore.
type migrationStateStore struct {
	store *Store
}

var _ driven.MigrationStateStore = (*migrationStateStore)(nil)

// IsMigrated reports whether the identity was migrated before.
func (s *migrationStateStore) IsMigrated(ctx context.Context, identity string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM migrated_identities WHERE identity = ?", identity).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking migrated identity: %w", err)
	}
	return count > 0, nil
}

// MarkMigrated records a completed migration for the identity.
func (s *migrationStateStore) MarkMigrated(ctx context.Context, identity string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO migrated_identities (identity, migrated_at)
		VALUES (?, ?)
		ON CONFLICT(identity) DO NOTHING
	`, identity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("marking identity migrated: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// insertChunks writes all chunks for a document within tx.
func insertChunks(ctx context.Context, tx *sql.Tx, docID string, chunks [][]domain.Token) error {
	if len(chunks) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (doc_id, chunk_index, tokens)
		VALUES (?, ?, ?)
		ON CONFLICT(doc_id, chunk_index) DO UPDATE SET tokens = excluded.tokens
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, tokens := range chunks {
		tokensJSON, err := json.Marshal(tokens)
		if err != nil {
			return fmt.Errorf("marshalling tokens: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, docID, i, string(tokensJSON)); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}
	return nil
}

// deriveTitle falls back to the content's opening words when no title given.
func deriveTitle(title, content string) string {
	if strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}

	words := strings.Fields(content)
	if len(words) == 0 {
		return "Untitled"
	}
	if len(words) > titleWordLimit {
		words = words[:titleWordLimit]
	}
	return strings.Join(words, " ")
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocumentFields(sc rowScanner, extra ...any) (*domain.Document, error) {
	var doc domain.Document
	var content, shareToken, remoteID sql.NullString
	var visibility, syncStatus string
	var expiresAt, lastSyncedAt sql.NullTime

	dest := []any{
		&doc.ID, &doc.Title, &content, &doc.HasContent, &doc.TokenCount,
		&doc.ChunkCount, &visibility, &shareToken, &expiresAt, &syncStatus,
		&remoteID, &lastSyncedAt, &doc.CreatedAt, &doc.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := sc.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Visibility = domain.Visibility(visibility)
	doc.SyncStatus = domain.SyncStatus(syncStatus)
	doc.ShareToken = shareToken.String
	doc.RemoteID = remoteID.String
	if expiresAt.Valid {
		t := expiresAt.Time
		doc.ExpiresAt = &t
	}
	if lastSyncedAt.Valid {
		t := lastSyncedAt.Time
		doc.LastSyncedAt = &t
	}
	return &doc, nil
}

func scanDocument(row *sql.Row) (*domain.Document, error) {
	return scanDocumentFields(row)
}

func scanDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentFields(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func scanDocumentWithProgress(rows *sql.Rows) (*domain.Document, int, error) {
	var tokenIndex int
	doc, err := scanDocumentFields(rows, &tokenIndex)
	if err != nil {
		return nil, 0, err
	}
	return doc, tokenIndex, nil
}

// nullString maps empty strings to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
