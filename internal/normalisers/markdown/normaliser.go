// Package markdown strips Markdown formatting down to readable text.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown", ".mdown"}
}

// Normalise strips formatting and takes the first H1 heading as the title.
func (n *Normaliser) Normalise(_ context.Context, raw []byte, _ string) (*driven.Normalised, error) {
	content := string(raw)

	return &driven.Normalised{
		Title: firstHeading(content),
		Text:  stripMarkdown(content),
	}, nil
}

// firstHeading returns the first H1 heading, or empty.
func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

// Pre-compiled patterns for formatting removal.
var (
	codeBlocks  = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode  = regexp.MustCompile("`[^`]+`")
	images      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquotes = regexp.MustCompile(`(?m)^>\s*`)
	rules       = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
)

// stripMarkdown removes common markdown formatting for plain text content.
// This is a simplified implementation that handles common cases.
func stripMarkdown(content string) string {
	content = codeBlocks.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")

	// Convert links [text](url) to just text
	content = links.ReplaceAllString(content, "$1")

	content = headings.ReplaceAllString(content, "")

	// Remove bold/italic markers
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	content = blockquotes.ReplaceAllString(content, "")
	content = rules.ReplaceAllString(content, "")

	return strings.TrimSpace(content)
}
