// Package normalisers converts document formats to plain text before
// segmentation. Selection is by file extension; unknown formats fall back
// to plain text.
package normalisers

import (
	"path/filepath"
	"strings"

	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/normalisers/html"
	"github.com/pacerlabs/pacer-cli/internal/normalisers/markdown"
	"github.com/pacerlabs/pacer-cli/internal/normalisers/plaintext"
)

// Registry selects a normaliser for a file.
type Registry struct {
	byExt    map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewRegistry creates a registry with the built-in normalisers registered.
func NewRegistry() *Registry {
	r := &Registry{
		byExt:    make(map[string]driven.Normaliser),
		fallback: plaintext.New(),
	}
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	return r
}

// Register adds a normaliser for its declared extensions. Later
// registrations win on conflict.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[ext] = n
	}
}

// ForFile returns the normaliser for the file's extension, falling back to
// plain text for unknown formats.
func (r *Registry) ForFile(path string) driven.Normaliser {
	ext := strings.ToLower(filepath.Ext(path))
	if n, ok := r.byExt[ext]; ok {
		return n
	}
	return r.fallback
}
