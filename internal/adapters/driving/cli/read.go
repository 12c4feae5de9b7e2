package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/config/file"
	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/timing"
	"github.com/pacerlabs/pacer-cli/internal/adapters/driving/tui"
	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/services"
)

var readCmd = &cobra.Command{
	Use:   "read [doc-id]",
	Short: "Read a document in the terminal",
	Long: `Launches the full-screen reader. Reading resumes from the saved
position.

Controls:
  space    - Play / pause
  ←/h, →/l - Seek
  +, -     - Adjust speed
  0        - Restart
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

// Flags for read.
var (
	readWPM       int
	readChunkSize int
)

func init() {
	readCmd.Flags().IntVar(&readWPM, "wpm", 0, "Words per minute (overrides the saved speed)")
	readCmd.Flags().IntVar(&readChunkSize, "chunk-size", 0, "Words shown at once (overrides the saved value)")

	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("read requires a terminal")
	}

	// Panic recovery keeps a stack trace visible past the altscreen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in reader: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	docID := args[0]
	ctx := context.Background()

	doc, err := libraryService.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	state, err := libraryService.GetReadingState(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get reading state: %w", err)
	}
	applyReadOverrides(state)

	reader := tui.NewReader(libraryService, syncManager, doc, state)

	// The engine needs the program for callbacks and the model needs the
	// engine; build the program first, then close the loop.
	p := tea.NewProgram(reader, tea.WithAltScreen())
	engine := services.NewPlaybackEngine(timing.NewTimerScheduler(), reader.Callbacks(p))
	reader.SetEngine(engine)
	defer engine.Destroy()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("reader error: %w", err)
	}
	return nil
}

// applyReadOverrides folds flag and config defaults into the saved state.
func applyReadOverrides(state *domain.ReadingState) {
	if readWPM > 0 {
		state.WPM = readWPM
	} else if configStore != nil {
		if wpm := configStore.GetInt(file.KeyDefaultWPM); wpm > 0 && state.WPM == domain.DefaultWPM {
			state.WPM = wpm
		}
	}

	if readChunkSize > 0 {
		state.ChunkSize = readChunkSize
	} else if configStore != nil {
		if size := configStore.GetInt(file.KeyDefaultChunk); size > 0 && state.ChunkSize == domain.DefaultDisplayChunkSize {
			state.ChunkSize = size
		}
	}
}
