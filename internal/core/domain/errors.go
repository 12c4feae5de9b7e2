package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document, chunk or reading state
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrContentUnavailable indicates a document has tokens but no cached
	// raw text. Editing such a document must be refused, not attempted.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrOffline indicates a sync was attempted with no connectivity.
	ErrOffline = errors.New("offline")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrNotAuthenticated indicates an operation requires a signed-in
	// account but none is configured.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// RequestFailedError is returned when a remote call completes with a
// non-2xx status that does not map to a more specific domain error.
type RequestFailedError struct {
	// Op names the remote operation that failed.
	Op string

	// StatusCode is the HTTP status returned by the server.
	StatusCode int
}

// Error implements the error interface.
func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s: request failed with status %d", e.Op, e.StatusCode)
}

// IsRequestFailed reports whether err is a RequestFailedError and returns it.
func IsRequestFailed(err error) (*RequestFailedError, bool) {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}
