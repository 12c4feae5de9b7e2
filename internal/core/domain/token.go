package domain

// Pause weight constants applied to a token's base display duration.
// Priority when classifying: paragraph end > sentence end > clause > baseline.
const (
	PauseBaseline  = 1.0
	PauseClause    = 1.3
	PauseSentence  = 1.8
	PauseParagraph = 2.2
)

// Token is a single display unit produced by the segmenter.
// It is immutable once produced.
type Token struct {
	// Text is the word as displayed, including trailing punctuation.
	Text string `json:"text"`

	// PivotIndex is the code point offset within Text the reader's eye
	// should fixate on during playback.
	PivotIndex int `json:"pivotIndex"`

	// PauseWeight multiplies the base display duration.
	PauseWeight float64 `json:"pauseWeight"`

	// EndsSentence is true when the token closes a sentence.
	EndsSentence bool `json:"endsSentence"`

	// EndsParagraph is true for the last token of a paragraph.
	EndsParagraph bool `json:"endsParagraph"`

	// SentenceIndex is the zero-based sentence ordinal.
	SentenceIndex int `json:"sentenceIndex"`

	// ParagraphIndex is the zero-based paragraph ordinal.
	ParagraphIndex int `json:"paragraphIndex"`
}
