// Package remote implements the document store contract against the pacer
// account API. Each contract operation maps to exactly one JSON request;
// 404 responses become domain.ErrNotFound and other non-2xx responses
// become domain.RequestFailedError with the status preserved.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// requestsPerSecond bounds how fast we hit the API.
	requestsPerSecond = 10

	// requestBurst is the rate limiter burst size.
	requestBurst = 20
)

// Ensure Store implements the contract.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the remote backend of the document store contract.
type Store struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewStore creates a remote store for the given API base URL,
// authenticating every request with the bearer token.
func NewStore(baseURL, token string) *Store {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = DefaultTimeout

	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// createRequest is the create/update payload.
type createRequest struct {
	Title   string  `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// contentResponse carries raw text with its availability flag.
type contentResponse struct {
	Content   string `json:"content"`
	Available bool   `json:"available"`
}

// CreateDocument uploads content for server-side tokenisation.
func (s *Store) CreateDocument(ctx context.Context, content, title string) (*domain.Document, error) {
	var doc domain.Document
	req := createRequest{Title: title, Content: &content}
	if err := s.do(ctx, http.MethodPost, "/api/documents", req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocument retrieves document metadata.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := s.do(ctx, http.MethodGet, "/api/documents/"+id, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns the account's documents with progress.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	var summaries []domain.DocumentSummary
	if err := s.do(ctx, http.MethodGet, "/api/documents", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// UpdateDocument changes the title and optionally the content.
func (s *Store) UpdateDocument(ctx context.Context, id, title string, content *string) (*domain.Document, error) {
	var doc domain.Document
	req := createRequest{Title: title, Content: content}
	if err := s.do(ctx, http.MethodPatch, "/api/documents/"+id, req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document and everything belonging to it.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/documents/"+id, nil, nil)
}

// GetChunk fetches one storage chunk by index.
func (s *Store) GetChunk(ctx context.Context, id string, index int) (*domain.Chunk, error) {
	var chunk domain.Chunk
	path := fmt.Sprintf("/api/documents/%s/chunks/%d", id, index)
	if err := s.do(ctx, http.MethodGet, path, nil, &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}

// GetReadingState fetches the reading state.
func (s *Store) GetReadingState(ctx context.Context, id string) (*domain.ReadingState, error) {
	var state domain.ReadingState
	if err := s.do(ctx, http.MethodGet, "/api/documents/"+id+"/reading-state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// UpdateReadingState persists a partial reading-state update.
func (s *Store) UpdateReadingState(ctx context.Context, id string, update domain.ReadingStateUpdate) (*domain.ReadingState, error) {
	var state domain.ReadingState
	if err := s.do(ctx, http.MethodPut, "/api/documents/"+id+"/reading-state", update, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetContent returns the raw text and whether the server has it.
func (s *Store) GetContent(ctx context.Context, id string) (string, bool, error) {
	var resp contentResponse
	if err := s.do(ctx, http.MethodGet, "/api/documents/"+id+"/content", nil, &resp); err != nil {
		return "", false, err
	}
	return resp.Content, resp.Available, nil
}

// Healthy reports whether the API answers. Used as the connectivity probe.
func (s *Store) Healthy(ctx context.Context) bool {
	return s.do(ctx, http.MethodGet, "/api/health", nil, nil) == nil
}

// do performs one JSON request against the API.
func (s *Store) do(ctx context.Context, method, path string, in, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &domain.RequestFailedError{
			Op:         method + " " + path,
			StatusCode: resp.StatusCode,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
