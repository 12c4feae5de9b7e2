package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
)

func TestStore_AuthorisesEveryRequest(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.Document{ID: "r-1"})
	}))
	defer server.Close()

	store := NewStore(server.URL, "secret-token")
	_, err := store.GetDocument(context.Background(), "r-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestStore_CreateDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/documents", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Title   string  `json:"title"`
			Content *string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "My Doc", req.Title)
		require.NotNil(t, req.Content)
		assert.Equal(t, "hello world", *req.Content)

		json.NewEncoder(w).Encode(domain.Document{
			ID:         "r-7",
			Title:      req.Title,
			TokenCount: 2,
			ChunkCount: 1,
		})
	}))
	defer server.Close()

	store := NewStore(server.URL, "token")
	doc, err := store.CreateDocument(context.Background(), "hello world", "My Doc")
	require.NoError(t, err)

	assert.Equal(t, "r-7", doc.ID)
	assert.Equal(t, 2, doc.TokenCount)
}

func TestStore_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	store := NewStore(server.URL, "token")
	_, err := store.GetDocument(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RequestFailedKeepsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewStore(server.URL, "token")
	_, err := store.ListDocuments(context.Background())

	var reqErr *domain.RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Contains(t, reqErr.Op, "/api/documents")
}

func TestStore_GetChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/r-1/chunks/2", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Chunk{
			DocID:  "r-1",
			Index:  2,
			Tokens: []domain.Token{{Text: "word", PauseWeight: domain.PauseBaseline}},
		})
	}))
	defer server.Close()

	store := NewStore(server.URL, "token")
	chunk, err := store.GetChunk(context.Background(), "r-1", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, chunk.Index)
	require.Len(t, chunk.Tokens, 1)
	assert.Equal(t, "word", chunk.Tokens[0].Text)
}

func TestStore_UpdateReadingState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/documents/r-1/reading-state", r.URL.Path)

		var update domain.ReadingStateUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		require.NotNil(t, update.TokenIndex)

		json.NewEncoder(w).Encode(domain.ReadingState{DocID: "r-1", TokenIndex: *update.TokenIndex, WPM: 300})
	}))
	defer server.Close()

	store := NewStore(server.URL, "token")
	idx := 42
	state, err := store.UpdateReadingState(context.Background(), "r-1", domain.ReadingStateUpdate{TokenIndex: &idx})
	require.NoError(t, err)

	assert.Equal(t, 42, state.TokenIndex)
}

func TestStore_GetContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/r-1/content", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"content": "full text", "available": true})
	}))
	defer server.Close()

	store := NewStore(server.URL, "token")
	content, available, err := store.GetContent(context.Background(), "r-1")
	require.NoError(t, err)

	assert.True(t, available)
	assert.Equal(t, "full text", content)
}

func TestStore_DeleteDocument(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store := NewStore(server.URL, "token")
	err := store.DeleteDocument(context.Background(), "r-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestStore_Healthy(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	assert.True(t, NewStore(healthy.URL, "token").Healthy(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	down.Close() // connection refused from here on

	assert.False(t, NewStore(down.URL, "token").Healthy(context.Background()))
}

func TestStore_TrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.DocumentSummary{})
	}))
	defer server.Close()

	store := NewStore(server.URL+"/", "token")
	_, err := store.ListDocuments(context.Background())

	assert.NoError(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(server.URL, "token").GetDocument(ctx, "r-1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}
