// Package segmenter turns raw text into timed display tokens and splits
// token sequences into fixed-size storage chunks. Both operations are
// pure: deterministic, total, side-effect free.
package segmenter

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
)

// abbreviations that take a trailing period without ending a sentence.
// Checked case-insensitively with surrounding punctuation stripped.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {},
	"sr": {}, "jr": {}, "st": {}, "vs": {}, "etc": {},
	"inc": {}, "ltd": {}, "co": {}, "corp": {}, "dept": {},
	"est": {}, "fig": {}, "no": {}, "vol": {}, "approx": {},
	"e.g": {}, "i.e": {},
}

var blankLines = regexp.MustCompile(`\n[ \t]*\n+`)

// Segment splits text into ordered display tokens with pivot index and
// pause weight. Empty input yields an empty sequence.
func Segment(text string) []domain.Token {
	paragraphs := splitParagraphs(text)

	type word struct {
		text      string
		paragraph int
		lastInPar bool
	}

	var words []word
	for p, par := range paragraphs {
		fields := strings.Fields(par)
		for i, f := range fields {
			words = append(words, word{
				text:      f,
				paragraph: p,
				lastInPar: i == len(fields)-1,
			})
		}
	}

	tokens := make([]domain.Token, 0, len(words))
	sentence := 0
	for i, w := range words {
		var next string
		if i+1 < len(words) {
			next = words[i+1].text
		}

		endsSentence := isSentenceEnd(w.text, next)

		weight := domain.PauseBaseline
		switch {
		case w.lastInPar:
			weight = domain.PauseParagraph
		case endsSentence:
			weight = domain.PauseSentence
		case hasClausePunctuation(w.text):
			weight = domain.PauseClause
		}

		tokens = append(tokens, domain.Token{
			Text:           w.text,
			PivotIndex:     PivotIndex(w.text),
			PauseWeight:    weight,
			EndsSentence:   endsSentence,
			EndsParagraph:  w.lastInPar,
			SentenceIndex:  sentence,
			ParagraphIndex: w.paragraph,
		})

		if endsSentence {
			sentence++
		}
	}

	return tokens
}

// PivotIndex returns the fixation point for a word, counted over Unicode
// code points. The rule is banded by word length.
func PivotIndex(text string) int {
	n := len([]rune(text))
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	case n <= 5:
		return (n - 1) / 2
	case n <= 9:
		return n / 3
	default:
		return n/4 + 1
	}
}

// splitParagraphs normalises line endings and collapses runs of blank
// lines into paragraph breaks. Paragraphs with no words are dropped.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var paragraphs []string
	for _, par := range blankLines.Split(text, -1) {
		if strings.TrimSpace(par) != "" {
			paragraphs = append(paragraphs, par)
		}
	}
	return paragraphs
}

// isSentenceEnd classifies a word as a sentence boundary. A trailing
// terminator does not count when the word is a known abbreviation, or when
// the following word starts with a lowercase letter: true boundaries are
// followed by a capitalised or absent next word.
func isSentenceEnd(text, next string) bool {
	if !hasSentencePunctuation(text) {
		return false
	}

	stripped := strings.ToLower(strings.TrimFunc(text, unicode.IsPunct))
	if _, ok := abbreviations[stripped]; ok {
		return false
	}

	if next != "" {
		first := []rune(next)[0]
		if unicode.IsLower(first) {
			return false
		}
	}
	return true
}

func hasSentencePunctuation(text string) bool {
	return strings.HasSuffix(text, ".") ||
		strings.HasSuffix(text, "!") ||
		strings.HasSuffix(text, "?")
}

func hasClausePunctuation(text string) bool {
	return strings.HasSuffix(text, ",") ||
		strings.HasSuffix(text, ";") ||
		strings.HasSuffix(text, ":")
}
