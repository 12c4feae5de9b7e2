package services

import (
	"sync"
	"time"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driving"
)

const (
	// defaultTickInterval approximates an animation frame.
	defaultTickInterval = 16 * time.Millisecond

	// prefetchThreshold is how far into the current storage chunk playback
	// must be before the next chunk is requested. Push-ahead keeps the
	// loop from stalling on I/O at normal reading speeds.
	prefetchThreshold = 0.8
)

// Ensure PlaybackEngine implements the interface.
var _ driving.PlaybackEngine = (*PlaybackEngine)(nil)

// PlaybackEngine advances through tokens on a cooperative timing loop:
// one scheduled callback at a time, each tick rescheduling itself only
// after it completed. The engine does no I/O; chunk loads are requested
// through OnNeedChunk and arrive asynchronously via SetTokens.
type PlaybackEngine struct {
	sched driven.TickScheduler
	cb    driving.PlaybackCallbacks
	now   func() time.Time
	every time.Duration

	mu               sync.Mutex
	tokens           []domain.Token
	position         int
	totalTokens      int
	storageChunkSize int
	wpm              int
	groupSize        int
	playing          bool
	accum            time.Duration
	lastTick         time.Time
	cancel           driven.CancelTick
	requested        map[int]bool
}

// PlaybackOption configures the engine.
type PlaybackOption func(*PlaybackEngine)

// WithClock overrides the wall clock. Useful for testing.
func WithClock(now func() time.Time) PlaybackOption {
	return func(e *PlaybackEngine) {
		e.now = now
	}
}

// WithTickInterval overrides the scheduling granularity. The accumulator
// keeps WPM timing accurate regardless of this value.
func WithTickInterval(d time.Duration) PlaybackOption {
	return func(e *PlaybackEngine) {
		if d > 0 {
			e.every = d
		}
	}
}

// NewPlaybackEngine creates an engine in the paused state with no tokens.
func NewPlaybackEngine(sched driven.TickScheduler, cb driving.PlaybackCallbacks, opts ...PlaybackOption) *PlaybackEngine {
	e := &PlaybackEngine{
		sched:            sched,
		cb:               cb,
		now:              time.Now,
		every:            defaultTickInterval,
		storageChunkSize: 1,
		wpm:              domain.DefaultWPM,
		groupSize:        domain.DefaultDisplayChunkSize,
		requested:        make(map[int]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Play starts the timing loop. No-op while playing or with no tokens.
func (e *PlaybackEngine) Play() {
	e.mu.Lock()
	if e.playing || len(e.tokens) == 0 {
		e.mu.Unlock()
		return
	}
	e.playing = true
	e.accum = 0
	e.lastTick = e.now()
	e.scheduleLocked()
	e.mu.Unlock()

	e.emitState(true)
}

// Pause stops the timing loop.
func (e *PlaybackEngine) Pause() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	e.playing = false
	e.cancelLocked()
	e.mu.Unlock()

	e.emitState(false)
}

// Toggle flips between playing and paused.
func (e *PlaybackEngine) Toggle() {
	e.mu.Lock()
	playing := e.playing
	e.mu.Unlock()

	if playing {
		e.Pause()
	} else {
		e.Play()
	}
}

// IsPlaying reports whether the timing loop is running.
func (e *PlaybackEngine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Position returns the current token index.
func (e *PlaybackEngine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// SetPosition seeks, clamped to the loaded window, and resets the
// accumulated time so the new token gets its full display duration.
func (e *PlaybackEngine) SetPosition(i int) {
	e.mu.Lock()
	e.position = clampIndex(i, len(e.tokens))
	e.accum = 0
	pos := e.position
	window := e.windowLocked()
	need := e.prefetchLocked()
	e.mu.Unlock()

	e.emitPosition(pos, window)
	e.emitNeedChunk(need)
}

// SetTokens delivers a storage chunk. Chunk 0 replaces the window from the
// start; a later chunk appends, truncating first when the window already
// reaches that chunk's offset so re-delivery never duplicates tokens.
func (e *PlaybackEngine) SetTokens(tokens []domain.Token, chunkIndex, totalTokens, storageChunkSize int) {
	e.mu.Lock()
	if storageChunkSize > 0 {
		e.storageChunkSize = storageChunkSize
	}
	e.totalTokens = totalTokens

	if chunkIndex == 0 {
		e.tokens = append([]domain.Token(nil), tokens...)
	} else {
		offset := chunkIndex * e.storageChunkSize
		if len(e.tokens) >= offset {
			e.tokens = append(e.tokens[:offset:offset], tokens...)
		} else {
			e.tokens = append(e.tokens, tokens...)
		}
	}
	delete(e.requested, chunkIndex)

	e.position = clampIndex(e.position, len(e.tokens))
	pos := e.position
	window := e.windowLocked()
	e.mu.Unlock()

	e.emitPosition(pos, window)
}

// SetConfig merges non-nil fields, effective on the next tick.
func (e *PlaybackEngine) SetConfig(cfg driving.PlaybackConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cfg.WPM != nil && *cfg.WPM > 0 {
		e.wpm = *cfg.WPM
	}
	if cfg.ChunkSize != nil && *cfg.ChunkSize > 0 {
		e.groupSize = *cfg.ChunkSize
	}
}

// CurrentWindow returns the tokens currently on display.
func (e *PlaybackEngine) CurrentWindow() []domain.Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.windowLocked()
}

// Destroy forces pause, clears the loaded window and position, and stops
// the timing loop before returning. Safe in any state.
func (e *PlaybackEngine) Destroy() {
	e.mu.Lock()
	wasPlaying := e.playing
	e.playing = false
	e.cancelLocked()
	e.tokens = nil
	e.position = 0
	e.totalTokens = 0
	e.accum = 0
	e.requested = make(map[int]bool)
	e.mu.Unlock()

	if wasPlaying {
		e.emitState(false)
	}
}

// tick is the timing loop body. It measures elapsed wall time, accumulates
// it, and advances once the current token's adjusted delay has elapsed.
func (e *PlaybackEngine) tick() {
	emitPos := -1
	var window []domain.Token
	stopped := false
	need := -1

	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}

	now := e.now()
	e.accum += now.Sub(e.lastTick)
	e.lastTick = now

	delay := e.delayLocked()
	if e.accum >= delay {
		e.accum -= delay
		next := e.position + e.groupSize

		switch {
		case next >= e.totalTokens:
			// End of document: stop rather than wrap.
			e.position = clampIndex(e.totalTokens-1, len(e.tokens))
			e.playing = false
			e.cancelLocked()
			stopped = true
			emitPos = e.position
			window = e.windowLocked()

		case next >= len(e.tokens):
			// The next chunk has not arrived; hold at the end of the
			// loaded window. Degraded mode, not an error state.
			e.accum = 0
			need = e.prefetchLocked()

		default:
			e.position = next
			emitPos = e.position
			window = e.windowLocked()
			need = e.prefetchLocked()
		}
	}

	if e.playing {
		e.scheduleLocked()
	}
	e.mu.Unlock()

	if emitPos >= 0 {
		e.emitPosition(emitPos, window)
	}
	e.emitNeedChunk(need)
	if stopped {
		e.emitState(false)
	}
}

// delayLocked is the adjusted display duration of the current token:
// 60000/wpm milliseconds scaled by its pause weight.
func (e *PlaybackEngine) delayLocked() time.Duration {
	base := float64(time.Minute) / float64(e.wpm)

	weight := domain.PauseBaseline
	if i := clampIndex(e.position, len(e.tokens)); i < len(e.tokens) {
		weight = e.tokens[i].PauseWeight
	}
	return time.Duration(base * weight)
}

// prefetchLocked decides whether the next storage chunk should be
// requested: past 80% of the current chunk, next chunk neither loaded nor
// out of range, not already requested. Returns the chunk index or -1.
func (e *PlaybackEngine) prefetchLocked() int {
	if e.storageChunkSize <= 0 || e.totalTokens == 0 {
		return -1
	}

	current := e.position / e.storageChunkSize
	chunkStart := current * e.storageChunkSize
	chunkLen := e.totalTokens - chunkStart
	if chunkLen > e.storageChunkSize {
		chunkLen = e.storageChunkSize
	}
	if chunkLen <= 0 {
		return -1
	}

	posInChunk := e.position - chunkStart
	if float64(posInChunk) < prefetchThreshold*float64(chunkLen) {
		return -1
	}

	next := current + 1
	nextStart := next * e.storageChunkSize
	if nextStart >= e.totalTokens || len(e.tokens) > nextStart || e.requested[next] {
		return -1
	}

	e.requested[next] = true
	return next
}

func (e *PlaybackEngine) scheduleLocked() {
	e.cancel = e.sched.Schedule(e.every, e.tick)
}

func (e *PlaybackEngine) cancelLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// windowLocked is tokens[position .. position+groupSize), truncated at the
// end of the loaded window.
func (e *PlaybackEngine) windowLocked() []domain.Token {
	if len(e.tokens) == 0 {
		return nil
	}
	end := e.position + e.groupSize
	if end > len(e.tokens) {
		end = len(e.tokens)
	}
	return append([]domain.Token(nil), e.tokens[e.position:end]...)
}

func (e *PlaybackEngine) emitState(playing bool) {
	if e.cb.OnStateChange != nil {
		e.cb.OnStateChange(playing)
	}
}

func (e *PlaybackEngine) emitPosition(pos int, window []domain.Token) {
	if e.cb.OnPosition != nil {
		e.cb.OnPosition(pos, window)
	}
}

func (e *PlaybackEngine) emitNeedChunk(index int) {
	if index >= 0 && e.cb.OnNeedChunk != nil {
		e.cb.OnNeedChunk(index)
	}
}

// clampIndex clamps i to [0, n-1], or 0 when nothing is loaded.
func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
