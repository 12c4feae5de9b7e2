// Package plaintext passes text files through unchanged.
package plaintext

import (
	"context"

	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// Normalise returns the content as-is; the title is left for the caller
// to derive.
func (n *Normaliser) Normalise(_ context.Context, raw []byte, _ string) (*driven.Normalised, error) {
	return &driven.Normalised{Text: string(raw)}, nil
}
