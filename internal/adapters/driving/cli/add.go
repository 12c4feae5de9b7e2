package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pacerlabs/pacer-cli/internal/logger"
	"github.com/pacerlabs/pacer-cli/internal/normalisers"
)

// formats converts files to plain text before ingestion.
var formats = normalisers.NewRegistry()

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Add a document to the library",
	Long: `Ingest a text file (or stdin when no file is given) into the library.
The text is segmented into tokens and stored locally; with an account
configured the document is created remotely as well.

Examples:
  pacer add notes.txt
  pacer add notes.txt --title "Meeting notes"
  cat article.txt | pacer add
  pacer add draft.txt --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

// Flags for add.
var (
	addTitle string
	addWatch bool
)

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Document title (derived from content if empty)")
	addCmd.Flags().BoolVarP(&addWatch, "watch", "w", false, "Re-ingest the file whenever it changes")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	if len(args) == 0 {
		if addWatch {
			return errors.New("--watch requires a file argument")
		}

		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}

		doc, err := libraryService.Create(ctx, string(content), addTitle)
		if err != nil {
			return fmt.Errorf("failed to add document: %w", err)
		}

		printAdded(cmd, doc.ID, doc.Title, doc.TokenCount)
		return nil
	}

	path := args[0]
	text, title, err := normaliseFile(ctx, path)
	if err != nil {
		return err
	}
	if addTitle != "" {
		title = addTitle
	}

	doc, err := libraryService.Create(ctx, text, title)
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	printAdded(cmd, doc.ID, doc.Title, doc.TokenCount)

	if addWatch {
		return watchFile(cmd, path, doc.ID)
	}
	return nil
}

// normaliseFile reads a file and converts it to plain text based on its
// extension.
func normaliseFile(ctx context.Context, path string) (text, title string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := formats.ForFile(path).Normalise(ctx, content, path)
	if err != nil {
		return "", "", fmt.Errorf("failed to normalise %s: %w", path, err)
	}
	return result.Text, result.Title, nil
}

func printAdded(cmd *cobra.Command, id, title string, tokens int) {
	cmd.Printf("Added %q (%d tokens)\n", title, tokens)
	cmd.Printf("  ID: %s\n", id)
}

// watchFile re-ingests path into the document whenever it is written.
// Blocks until interrupted.
func watchFile(cmd *cobra.Command, path, docID string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; editors often replace the file on save, which
	// would drop a watch on the file itself.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", path)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Debounce bursts of events from a single save.
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(200 * time.Millisecond)

		case <-pending:
			pending = nil
			if err := reingest(cmd, abs, docID); err != nil {
				logger.Warn("re-ingest failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-sigCh:
			cmd.Println("Stopped watching.")
			return nil
		}
	}
}

func reingest(cmd *cobra.Command, path, docID string) error {
	ctx := context.Background()
	text, _, err := normaliseFile(ctx, path)
	if err != nil {
		return err
	}

	doc, err := libraryService.Update(ctx, docID, "", &text)
	if err != nil {
		return err
	}

	cmd.Printf("Updated %q (%d tokens)\n", doc.Title, doc.TokenCount)
	return nil
}
