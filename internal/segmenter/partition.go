package segmenter

import "github.com/pacerlabs/pacer-cli/internal/core/domain"

// DefaultChunkSize is the default number of tokens per storage chunk.
const DefaultChunkSize = 5000

// Partition splits tokens into consecutive, non-overlapping slices of
// size tokens each; the final slice may be shorter. Empty input yields
// zero chunks, not one empty chunk. A non-positive size falls back to
// DefaultChunkSize.
func Partition(tokens []domain.Token, size int) [][]domain.Token {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(tokens) == 0 {
		return nil
	}

	chunks := make([][]domain.Token, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}
