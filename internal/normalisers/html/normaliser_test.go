package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalise(t *testing.T, input string) (string, string) {
	t.Helper()

	out, err := New().Normalise(context.Background(), []byte(input), "page.html")
	require.NoError(t, err)
	return out.Title, out.Text
}

func TestNormalise_TitleFromTitleTag(t *testing.T) {
	title, _ := normalise(t, "<html><head><title> My Page </title></head><body>hi</body></html>")

	assert.Equal(t, "My Page", title)
}

func TestNormalise_NoTitleTag(t *testing.T) {
	title, _ := normalise(t, "<p>untitled body</p>")

	assert.Empty(t, title)
}

func TestNormalise_StripsTags(t *testing.T) {
	_, text := normalise(t, "<p>Hello <b>world</b>.</p>")

	assert.Equal(t, "Hello world .", text)
}

func TestNormalise_RemovesScriptAndStyle(t *testing.T) {
	input := `<html><body>
		<script>alert("nope")</script>
		<style>p { color: red }</style>
		<p>visible text</p>
	</body></html>`

	_, text := normalise(t, input)

	assert.Contains(t, text, "visible text")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color")
}

func TestNormalise_BlockElementsBecomeParagraphs(t *testing.T) {
	_, text := normalise(t, "<p>first paragraph</p><p>second paragraph</p>")

	assert.Contains(t, text, "first paragraph\n\nsecond paragraph")
}

func TestNormalise_UnescapesEntities(t *testing.T) {
	_, text := normalise(t, "<p>Fish &amp; chips &mdash; cheap</p>")

	assert.Contains(t, text, "Fish & chips")
}

func TestNormalise_RemovesComments(t *testing.T) {
	_, text := normalise(t, "<p>kept</p><!-- dropped -->")

	assert.Contains(t, text, "kept")
	assert.NotContains(t, text, "dropped")
}
