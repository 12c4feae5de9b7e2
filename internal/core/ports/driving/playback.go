package driving

import "github.com/pacerlabs/pacer-cli/internal/core/domain"

// PlaybackEngine advances through a document's tokens on a timing loop,
// requesting further chunks before the loaded window runs out. Chunk
// boundaries are invisible to consumers.
type PlaybackEngine interface {
	// Play starts the timing loop. No-op while playing or with no tokens.
	Play()

	// Pause stops the timing loop.
	Pause()

	// Toggle flips between playing and paused.
	Toggle()

	// IsPlaying reports whether the timing loop is running.
	IsPlaying() bool

	// Position returns the current token index.
	Position() int

	// SetPosition seeks, clamped to the loaded window.
	SetPosition(i int)

	// SetTokens delivers a storage chunk. Chunk 0 replaces the window;
	// later chunks append. Re-delivery of an already-loaded chunk is
	// idempotent: the window is truncated to the chunk's offset before
	// the chunk is appended again.
	SetTokens(tokens []domain.Token, chunkIndex, totalTokens, storageChunkSize int)

	// SetConfig merges non-nil fields into the current configuration,
	// effective on the next tick.
	SetConfig(cfg PlaybackConfig)

	// CurrentWindow returns the tokens currently on display:
	// tokens[position .. position+chunkSize), truncated at the end of the
	// loaded window.
	CurrentWindow() []domain.Token

	// Destroy forces pause, clears the window and position, and stops the
	// timing loop before returning. Safe to call in any state.
	Destroy()
}

// PlaybackConfig is a partial playback configuration; nil fields keep the
// current value.
type PlaybackConfig struct {
	// WPM is words per minute. Base display time per advance is
	// 60000/WPM milliseconds, scaled by the current token's pause weight.
	WPM *int

	// ChunkSize is the display grouping: tokens shown and advanced per
	// tick. Distinct from the storage chunk size.
	ChunkSize *int
}

// PlaybackCallbacks are invoked by the engine as playback progresses.
// All callbacks run on the engine's timing goroutine; they must not block.
type PlaybackCallbacks struct {
	// OnStateChange fires when playback starts or stops.
	OnStateChange func(playing bool)

	// OnPosition fires when the position moves, with the new index and
	// the current display window.
	OnPosition func(position int, window []domain.Token)

	// OnNeedChunk asks the consumer to load a storage chunk. Loading is
	// asynchronous; the consumer calls SetTokens when the chunk arrives.
	// Load failures are the consumer's to log; playback continues on the
	// already-loaded window.
	OnNeedChunk func(chunkIndex int)
}
