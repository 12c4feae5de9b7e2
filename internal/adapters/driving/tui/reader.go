// Package tui implements the full-screen reading view on bubbletea. The
// playback engine drives it through callbacks translated into messages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pacerlabs/pacer-cli/internal/adapters/driving/tui/keymap"
	"github.com/pacerlabs/pacer-cli/internal/adapters/driving/tui/styles"
	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driving"
	"github.com/pacerlabs/pacer-cli/internal/logger"
	"github.com/pacerlabs/pacer-cli/internal/segmenter"
)

const (
	// seekStep is how many tokens the arrow keys move.
	seekStep = 10

	// wpmStep and the bounds apply to the speed keys.
	wpmStep = 25
	wpmMin  = 60
	wpmMax  = 1200

	// saveEvery is the position-save cadence in tokens.
	saveEvery = 50

	// chunkRetryDelay is how long to wait before retrying a failed
	// chunk load.
	chunkRetryDelay = 2 * time.Second
)

// Messages sent into the model by the engine callbacks.
type (
	positionMsg struct {
		position int
		window   []domain.Token
	}
	stateMsg struct {
		playing bool
	}
	needChunkMsg struct {
		index int
	}
	chunkMsg struct {
		chunk *domain.Chunk
	}
	errMsg struct {
		index int
		err   error
	}
)

// Reader is the bubbletea model for a single document session.
type Reader struct {
	library driving.Library
	sync    driving.SyncManager
	engine  driving.PlaybackEngine
	doc     *domain.Document

	keys     *keymap.KeyMap
	styles   *styles.Styles
	progress progress.Model

	width     int
	height    int
	playing   bool
	position  int
	resumeAt  int
	window    []domain.Token
	wpm       int
	chunkSize int
	lastSaved int
	loading   bool
	err       error
}

// NewReader creates the reader model. sync may be nil when no account is
// configured; chunk fetches then stay local. The engine is attached with
// SetEngine once its callbacks have a program to target.
func NewReader(
	library driving.Library,
	sync driving.SyncManager,
	doc *domain.Document,
	state *domain.ReadingState,
) *Reader {
	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	return &Reader{
		library:   library,
		sync:      sync,
		doc:       doc,
		keys:      keymap.DefaultKeyMap(),
		styles:    styles.NewStyles(styles.DefaultTheme()),
		progress:  prog,
		position:  state.TokenIndex,
		resumeAt:  state.TokenIndex,
		wpm:       state.WPM,
		chunkSize: state.ChunkSize,
		lastSaved: state.TokenIndex,
		loading:   true,
	}
}

// SetEngine attaches the playback engine. Must happen before the program
// runs.
func (r *Reader) SetEngine(engine driving.PlaybackEngine) {
	r.engine = engine
}

// Callbacks builds the engine callbacks that feed the given program.
// Must be wired before the engine starts playing.
func (r *Reader) Callbacks(p *tea.Program) driving.PlaybackCallbacks {
	return driving.PlaybackCallbacks{
		OnStateChange: func(playing bool) {
			p.Send(stateMsg{playing: playing})
		},
		OnPosition: func(position int, window []domain.Token) {
			p.Send(positionMsg{position: position, window: window})
		},
		OnNeedChunk: func(index int) {
			p.Send(needChunkMsg{index: index})
		},
	}
}

// Init loads the first chunk. The engine's token window is indexed from
// the document start, so resuming mid-document keeps loading consecutive
// chunks until the window reaches the saved position.
func (r *Reader) Init() tea.Cmd {
	return r.loadChunk(0)
}

func (r *Reader) storageChunkSize() int {
	return segmenter.DefaultChunkSize
}

// loadChunk fetches a storage chunk, falling back to the sync manager for
// remote-origin documents whose chunks are not cached yet.
func (r *Reader) loadChunk(index int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		chunk, err := r.library.GetChunk(ctx, r.doc.ID, index)
		if err == nil {
			return chunkMsg{chunk: chunk}
		}
		if r.sync != nil && errors.Is(err, domain.ErrNotFound) {
			chunk, err = r.sync.DownloadChunk(ctx, r.doc.ID, index)
			if err == nil {
				return chunkMsg{chunk: chunk}
			}
		}
		return errMsg{index: index, err: fmt.Errorf("failed to load chunk %d: %w", index, err)}
	}
}

// saveState persists the reading position. Best effort; reading must not
// stop because a save failed.
func (r *Reader) saveState() tea.Cmd {
	pos, wpm := r.position, r.wpm
	r.lastSaved = pos
	return func() tea.Msg {
		update := domain.ReadingStateUpdate{TokenIndex: &pos, WPM: &wpm}
		if _, err := r.library.UpdateReadingState(context.Background(), r.doc.ID, update); err != nil {
			logger.Warn("failed to save reading state: %v", err)
		}
		return nil
	}
}

func (r *Reader) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.progress.Width = min(msg.Width-8, 60)
		return r, nil

	case tea.KeyMsg:
		return r.handleKey(msg)

	case positionMsg:
		r.position = msg.position
		r.window = msg.window
		if !r.loading && abs(r.position-r.lastSaved) >= saveEvery {
			return r, r.saveState()
		}
		return r, nil

	case stateMsg:
		r.playing = msg.playing
		if !r.playing {
			return r, r.saveState()
		}
		return r, nil

	case needChunkMsg:
		return r, r.loadChunk(msg.index)

	case chunkMsg:
		r.engine.SetTokens(msg.chunk.Tokens, msg.chunk.Index, r.doc.TokenCount, r.storageChunkSize())
		if r.loading {
			if msg.chunk.Index < r.resumeAt/r.storageChunkSize() {
				return r, r.loadChunk(msg.chunk.Index + 1)
			}
			r.loading = false
			r.configureEngine()
			r.engine.SetPosition(r.resumeAt)
			r.engine.Play()
		}
		return r, nil

	case errMsg:
		// Missing chunks degrade playback, they do not end the session.
		// Retry after a delay so a transient failure can recover.
		r.err = msg.err
		logger.Warn("%v", msg.err)
		index := msg.index
		return r, tea.Tick(chunkRetryDelay, func(time.Time) tea.Msg {
			return needChunkMsg{index: index}
		})
	}

	return r, nil
}

func (r *Reader) configureEngine() {
	wpm, size := r.wpm, r.chunkSize
	r.engine.SetConfig(driving.PlaybackConfig{WPM: &wpm, ChunkSize: &size})
}

func (r *Reader) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Quit):
		r.engine.Destroy()
		return r, tea.Sequence(r.saveState(), tea.Quit)

	case key.Matches(msg, r.keys.Toggle):
		r.engine.Toggle()
		return r, nil

	case key.Matches(msg, r.keys.Back):
		r.engine.SetPosition(r.position - seekStep)
		return r, nil

	case key.Matches(msg, r.keys.Forward):
		r.engine.SetPosition(r.position + seekStep)
		return r, nil

	case key.Matches(msg, r.keys.Restart):
		r.engine.SetPosition(0)
		return r, nil

	case key.Matches(msg, r.keys.Slower):
		r.setWPM(r.wpm - wpmStep)
		return r, nil

	case key.Matches(msg, r.keys.Faster):
		r.setWPM(r.wpm + wpmStep)
		return r, nil
	}

	return r, nil
}

func (r *Reader) setWPM(wpm int) {
	if wpm < wpmMin {
		wpm = wpmMin
	}
	if wpm > wpmMax {
		wpm = wpmMax
	}
	r.wpm = wpm
	r.engine.SetConfig(driving.PlaybackConfig{WPM: &wpm})
}

func (r *Reader) View() string {
	if r.width == 0 {
		return "loading..."
	}

	var b strings.Builder

	b.WriteString(r.styles.Title.Render(r.doc.Title))
	b.WriteString("\n\n")
	b.WriteString(r.renderWord())
	b.WriteString("\n\n")

	percent := 0.0
	if r.doc.TokenCount > 0 {
		percent = float64(r.position+1) / float64(r.doc.TokenCount)
	}
	b.WriteString(r.progress.ViewAs(percent))
	b.WriteString("\n\n")
	b.WriteString(r.renderStatus())
	b.WriteString("\n")
	b.WriteString(r.styles.Muted.Render("space play/pause · ←/→ seek · +/- speed · q quit"))

	return lipgloss.Place(r.width, r.height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderWord renders the display window with the leading token's pivot
// rune highlighted.
func (r *Reader) renderWord() string {
	if len(r.window) == 0 {
		if r.loading {
			return r.styles.Muted.Render("loading...")
		}
		return r.styles.Muted.Render("…")
	}

	parts := make([]string, 0, len(r.window))
	for i := range r.window {
		tok := &r.window[i]
		if i == 0 {
			parts = append(parts, r.renderPivot(tok))
		} else {
			parts = append(parts, r.styles.Word.Render(tok.Text))
		}
	}
	return strings.Join(parts, " ")
}

func (r *Reader) renderPivot(tok *domain.Token) string {
	runes := []rune(tok.Text)
	if tok.PivotIndex < 0 || tok.PivotIndex >= len(runes) {
		return r.styles.Word.Render(tok.Text)
	}

	before := string(runes[:tok.PivotIndex])
	pivot := string(runes[tok.PivotIndex])
	after := string(runes[tok.PivotIndex+1:])

	return r.styles.Word.Render(before) + r.styles.Pivot.Render(pivot) + r.styles.Word.Render(after)
}

func (r *Reader) renderStatus() string {
	state := "paused"
	if r.playing {
		state = "playing"
	}

	status := fmt.Sprintf("%s · %d wpm · %d/%d", state, r.wpm, r.position+1, r.doc.TokenCount)
	line := r.styles.Muted.Render(status)

	if r.err != nil {
		line += "\n" + r.styles.Warning.Render("some chunks could not be loaded")
	}
	return line
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
