package driven

import "context"

// Normalised is the outcome of format normalisation: readable text ready
// for segmentation, plus a title when the format carries one.
type Normalised struct {
	// Title extracted from the content, empty when the format has none.
	Title string

	// Text is the plain text with formatting stripped.
	Text string
}

// Normaliser converts one document format into readable plain text.
type Normaliser interface {
	// Extensions returns the file extensions this normaliser handles,
	// lower-case with the leading dot (".md").
	Extensions() []string

	// Normalise converts raw file content to plain text.
	Normalise(ctx context.Context, raw []byte, uri string) (*Normalised, error)
}
