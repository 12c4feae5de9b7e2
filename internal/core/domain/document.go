package domain

import "time"

// SyncStatus tracks where a local document stands relative to the remote copy.
type SyncStatus string

// Document sync states.
const (
	// SyncStatusLocal means the document exists only on this device and has
	// not been queued for upload.
	SyncStatusLocal SyncStatus = "local"

	// SyncStatusPending means the document is queued for upload.
	SyncStatusPending SyncStatus = "pending"

	// SyncStatusSynced means the document has a remote counterpart.
	SyncStatusSynced SyncStatus = "synced"

	// SyncStatusError means the last upload attempt failed.
	SyncStatusError SyncStatus = "error"
)

// IsValid returns true if the sync status is recognised.
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusLocal, SyncStatusPending, SyncStatusSynced, SyncStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SyncStatus) String() string {
	return string(s)
}

// Visibility controls whether a document can be shared.
type Visibility string

// Document visibility options.
const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
)

// Document is the metadata record for a tokenised text.
// Raw content is stored separately and is not always resident: documents
// downloaded from the remote library carry metadata only until their
// chunks or content are fetched.
type Document struct {
	// ID is a client-generated UUID, so documents can be created offline
	// and reconciled with a server record without collision.
	ID string `json:"id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// TokenCount is the total number of tokens across all chunks.
	TokenCount int `json:"tokenCount"`

	// ChunkCount is the number of storage chunks.
	ChunkCount int `json:"chunkCount"`

	// HasContent is true when the raw text is resident in this store.
	HasContent bool `json:"hasContent"`

	// Visibility controls sharing. Defaults to private.
	Visibility Visibility `json:"visibility"`

	// ShareToken is set when the document has been shared.
	ShareToken string `json:"shareToken,omitempty"`

	// ExpiresAt bounds the lifetime of a share link.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	// SyncStatus tracks reconciliation with the remote copy.
	// Only meaningful on locally stored documents.
	SyncStatus SyncStatus `json:"syncStatus,omitempty"`

	// RemoteID is the server-side identifier once uploaded.
	// Invariant: empty exactly when SyncStatus is local.
	RemoteID string `json:"remoteId,omitempty"`

	// LastSyncedAt is when the document last synced successfully.
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when metadata or content last changed.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Chunk is a fixed-size contiguous slice of a document's token sequence,
// the unit of storage and transfer granularity.
type Chunk struct {
	// DocID links to the parent Document.
	DocID string `json:"docId"`

	// Index is the chunk ordinal. Index * chunk size gives the token
	// offset of the chunk's first token.
	Index int `json:"chunkIndex"`

	// Tokens is the token window this chunk covers.
	Tokens []Token `json:"tokens"`
}

// ReadingState is the persisted playback position and per-document speed
// preference. One record per document, overwritten on every save.
type ReadingState struct {
	DocID string `json:"docId"`

	// TokenIndex is the most recent playback position.
	TokenIndex int `json:"tokenIndex"`

	// WPM is the words-per-minute playback speed.
	WPM int `json:"wpm"`

	// ChunkSize is the display grouping: how many tokens advance per tick.
	ChunkSize int `json:"chunkSize"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Reading state defaults used when no record has been persisted.
const (
	DefaultWPM              = 300
	DefaultDisplayChunkSize = 1
)

// DefaultReadingState returns the state assumed for a document that has
// never been read.
func DefaultReadingState(docID string) ReadingState {
	return ReadingState{
		DocID:      docID,
		TokenIndex: 0,
		WPM:        DefaultWPM,
		ChunkSize:  DefaultDisplayChunkSize,
	}
}

// ReadingStateUpdate is a partial update; nil fields keep the stored value.
type ReadingStateUpdate struct {
	TokenIndex *int `json:"tokenIndex,omitempty"`
	WPM        *int `json:"wpm,omitempty"`
	ChunkSize  *int `json:"chunkSize,omitempty"`
}

// DocumentSummary pairs a document with its reading progress for listings.
type DocumentSummary struct {
	Document

	// TokenIndex is the current playback position.
	TokenIndex int `json:"tokenIndex"`

	// Progress is the fraction read, in [0, 1].
	Progress float64 `json:"progress"`
}
