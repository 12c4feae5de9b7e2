package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
)

type fakeNormaliser struct {
	exts []string
}

func (f *fakeNormaliser) Extensions() []string { return f.exts }

func (f *fakeNormaliser) Normalise(_ context.Context, raw []byte, _ string) (*driven.Normalised, error) {
	return &driven.Normalised{Text: string(raw)}, nil
}

func TestRegistry_SelectsByExtension(t *testing.T) {
	r := NewRegistry()

	assert.Contains(t, r.ForFile("notes.md").Extensions(), ".md")
	assert.Contains(t, r.ForFile("page.html").Extensions(), ".html")
	assert.Contains(t, r.ForFile("notes.txt").Extensions(), ".txt")
}

func TestRegistry_ExtensionIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()

	assert.Contains(t, r.ForFile("README.MD").Extensions(), ".md")
}

func TestRegistry_UnknownExtensionFallsBackToPlaintext(t *testing.T) {
	r := NewRegistry()

	n := r.ForFile("data.csv")
	out, err := n.Normalise(context.Background(), []byte("a,b,c"), "data.csv")
	require.NoError(t, err)

	assert.Equal(t, "a,b,c", out.Text)
	assert.Empty(t, out.Title)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := NewRegistry()
	custom := &fakeNormaliser{exts: []string{".md"}}

	r.Register(custom)

	assert.Same(t, driven.Normaliser(custom), r.ForFile("notes.md"))
}
