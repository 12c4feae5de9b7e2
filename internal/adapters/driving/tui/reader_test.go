package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driving"
	"github.com/pacerlabs/pacer-cli/internal/core/services"
	"github.com/pacerlabs/pacer-cli/internal/segmenter"
)

// mockEngine records calls so key handling can be asserted.
type mockEngine struct {
	playing     bool
	position    int
	setPosition []int
	setTokens   []int
	configs     []driving.PlaybackConfig
	destroyed   bool
	toggled     int
}

var _ driving.PlaybackEngine = (*mockEngine)(nil)

func (m *mockEngine) Play()           { m.playing = true }
func (m *mockEngine) Pause()          { m.playing = false }
func (m *mockEngine) Toggle()         { m.toggled++ }
func (m *mockEngine) IsPlaying() bool { return m.playing }
func (m *mockEngine) Position() int   { return m.position }

func (m *mockEngine) SetPosition(i int) {
	m.setPosition = append(m.setPosition, i)
}

func (m *mockEngine) SetTokens(_ []domain.Token, chunkIndex, _, _ int) {
	m.setTokens = append(m.setTokens, chunkIndex)
}

func (m *mockEngine) SetConfig(cfg driving.PlaybackConfig) {
	m.configs = append(m.configs, cfg)
}

func (m *mockEngine) CurrentWindow() []domain.Token { return nil }
func (m *mockEngine) Destroy()                      { m.destroyed = true }

// mockReaderLibrary serves chunks and records state saves.
type mockReaderLibrary struct {
	driving.Library

	savedStates []domain.ReadingStateUpdate
}

func (m *mockReaderLibrary) GetChunk(_ context.Context, id string, index int) (*domain.Chunk, error) {
	return &domain.Chunk{
		DocID:  id,
		Index:  index,
		Tokens: []domain.Token{{Text: "word", PivotIndex: 1}},
	}, nil
}

func (m *mockReaderLibrary) UpdateReadingState(_ context.Context, id string, update domain.ReadingStateUpdate) (*domain.ReadingState, error) {
	m.savedStates = append(m.savedStates, update)
	state := domain.DefaultReadingState(id)
	return &state, nil
}

func newTestReader() (*Reader, *mockEngine, *mockReaderLibrary) {
	library := &mockReaderLibrary{}
	doc := &domain.Document{ID: "doc-1", Title: "Test Doc", TokenCount: 100, ChunkCount: 1}
	state := domain.DefaultReadingState(doc.ID)
	state.WPM = 300

	r := NewReader(library, nil, doc, &state)
	engine := &mockEngine{}
	r.SetEngine(engine)
	return r, engine, library
}

func TestReader_FirstChunkStartsPlayback(t *testing.T) {
	r, engine, _ := newTestReader()

	chunk := &domain.Chunk{DocID: "doc-1", Index: 0, Tokens: []domain.Token{{Text: "word"}}}
	_, _ = r.Update(chunkMsg{chunk: chunk})

	assert.Equal(t, []int{0}, engine.setTokens)
	assert.True(t, engine.playing)
	require.Len(t, engine.configs, 1)
	require.NotNil(t, engine.configs[0].WPM)
	assert.Equal(t, 300, *engine.configs[0].WPM)
}

func TestReader_LaterChunksDoNotRestart(t *testing.T) {
	r, engine, _ := newTestReader()

	_, _ = r.Update(chunkMsg{chunk: &domain.Chunk{Index: 0, Tokens: []domain.Token{{Text: "a"}}}})
	engine.playing = false
	_, _ = r.Update(chunkMsg{chunk: &domain.Chunk{Index: 1, Tokens: []domain.Token{{Text: "b"}}}})

	assert.Equal(t, []int{0, 1}, engine.setTokens)
	assert.False(t, engine.playing)
}

func TestReader_PositionUpdatesSavePeriodically(t *testing.T) {
	r, _, library := newTestReader()
	_, _ = r.Update(chunkMsg{chunk: &domain.Chunk{Index: 0, Tokens: []domain.Token{{Text: "a"}}}})

	// Small moves do not save.
	_, cmd := r.Update(positionMsg{position: 10})
	assert.Nil(t, cmd)

	// Crossing the save cadence does.
	_, cmd = r.Update(positionMsg{position: 60})
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, library.savedStates, 1)
	require.NotNil(t, library.savedStates[0].TokenIndex)
	assert.Equal(t, 60, *library.savedStates[0].TokenIndex)
}

func TestReader_PauseSavesState(t *testing.T) {
	r, _, library := newTestReader()

	_, cmd := r.Update(stateMsg{playing: false})
	require.NotNil(t, cmd)
	cmd()

	assert.Len(t, library.savedStates, 1)
}

func TestReader_SeekKeys(t *testing.T) {
	r, engine, _ := newTestReader()
	_, _ = r.Update(positionMsg{position: 40})

	_, _ = r.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, _ = r.Update(tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, []int{50, 30}, engine.setPosition)
}

func TestReader_SpeedKeysClamp(t *testing.T) {
	r, engine, _ := newTestReader()

	for i := 0; i < 60; i++ {
		_, _ = r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	}

	require.NotEmpty(t, engine.configs)
	last := engine.configs[len(engine.configs)-1]
	require.NotNil(t, last.WPM)
	assert.Equal(t, 60, *last.WPM)
}

func TestReader_ToggleKey(t *testing.T) {
	r, engine, _ := newTestReader()

	_, _ = r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})

	assert.Equal(t, 1, engine.toggled)
}

func TestReader_QuitDestroysEngine(t *testing.T) {
	r, engine, _ := newTestReader()

	_, cmd := r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.True(t, engine.destroyed)
	assert.NotNil(t, cmd)
}

func TestReader_ViewShowsTitleAndWord(t *testing.T) {
	r, _, _ := newTestReader()
	_, _ = r.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	_, _ = r.Update(positionMsg{
		position: 5,
		window:   []domain.Token{{Text: "reading", PivotIndex: 2}},
	})

	view := r.View()

	assert.Contains(t, view, "Test Doc")
	assert.Contains(t, view, "reading")
	assert.Contains(t, view, "6/100")
}

func TestReader_ViewBeforeFirstSize(t *testing.T) {
	r, _, _ := newTestReader()

	assert.Equal(t, "loading...", r.View())
}

// stubScheduler satisfies the engine without really ticking.
type stubScheduler struct{}

func (stubScheduler) Schedule(_ time.Duration, _ func()) driven.CancelTick {
	return func() {}
}

// chunkedLibrary serves correctly sized storage chunks for a document of
// total tokens, recording each request.
type chunkedLibrary struct {
	driving.Library

	total     int
	requested []int
}

func (m *chunkedLibrary) GetChunk(_ context.Context, id string, index int) (*domain.Chunk, error) {
	m.requested = append(m.requested, index)

	start := index * segmenter.DefaultChunkSize
	if start >= m.total {
		return nil, domain.ErrNotFound
	}
	n := min(segmenter.DefaultChunkSize, m.total-start)
	tokens := make([]domain.Token, n)
	for i := range tokens {
		tokens[i] = domain.Token{Text: fmt.Sprintf("w%d", start+i)}
	}
	return &domain.Chunk{DocID: id, Index: index, Tokens: tokens}, nil
}

func (m *chunkedLibrary) UpdateReadingState(_ context.Context, id string, _ domain.ReadingStateUpdate) (*domain.ReadingState, error) {
	state := domain.DefaultReadingState(id)
	return &state, nil
}

func TestReader_ResumeDeepIntoDocument(t *testing.T) {
	library := &chunkedLibrary{total: 12000}
	doc := &domain.Document{ID: "doc-1", Title: "Long Doc", TokenCount: 12000, ChunkCount: 3}
	state := domain.DefaultReadingState(doc.ID)
	state.TokenIndex = 10500
	state.WPM = 300

	r := NewReader(library, nil, doc, &state)
	engine := services.NewPlaybackEngine(stubScheduler{}, driving.PlaybackCallbacks{})
	r.SetEngine(engine)

	// Drive the init sequence to completion the way the program would.
	cmd := r.Init()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		_, cmd = r.Update(msg)
	}

	// Every chunk below the saved position must be in the window before
	// playback starts, in document order.
	assert.Equal(t, []int{0, 1, 2}, library.requested)
	assert.Equal(t, 10500, engine.Position())
	assert.True(t, engine.IsPlaying())

	window := engine.CurrentWindow()
	require.NotEmpty(t, window)
	assert.Equal(t, "w10500", window[0].Text)
}

func TestReader_ChunkLoadFailureSchedulesRetry(t *testing.T) {
	r, _, _ := newTestReader()
	_, _ = r.Update(chunkMsg{chunk: &domain.Chunk{Index: 0, Tokens: []domain.Token{{Text: "a"}}}})

	_, cmd := r.Update(errMsg{index: 1, err: errors.New("connection reset")})
	require.NotNil(t, cmd, "a failed load schedules a retry")

	// The retry goes back through the normal load path for the same
	// chunk, so a transient failure does not stall playback for good.
	_, cmd = r.Update(needChunkMsg{index: 1})
	require.NotNil(t, cmd)
	msg := cmd()
	chunk, ok := msg.(chunkMsg)
	require.True(t, ok)
	assert.Equal(t, 1, chunk.chunk.Index)
}
