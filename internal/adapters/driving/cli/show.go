package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
)

var showCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// showContent is a flag for the show command.
var showContent bool

func init() {
	showCmd.Flags().BoolVarP(&showContent, "content", "c", false, "Print the raw text instead of metadata")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	if showContent {
		content, err := libraryService.GetContent(ctx, docID)
		if err != nil {
			if errors.Is(err, domain.ErrContentUnavailable) {
				return fmt.Errorf("raw text for %s is not cached locally; run 'pacer sync' first", docID)
			}
			return fmt.Errorf("failed to get content: %w", err)
		}
		cmd.Println(content)
		return nil
	}

	doc, err := libraryService.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	state, err := libraryService.GetReadingState(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get reading state: %w", err)
	}

	cmd.Printf("ID:       %s\n", doc.ID)
	cmd.Printf("Title:    %s\n", doc.Title)
	cmd.Printf("Tokens:   %d (%d chunks)\n", doc.TokenCount, doc.ChunkCount)
	cmd.Printf("Position: %d (wpm %d)\n", state.TokenIndex, state.WPM)
	cmd.Printf("Status:   %s\n", doc.SyncStatus)
	if doc.RemoteID != "" {
		cmd.Printf("Remote:   %s\n", doc.RemoteID)
	}
	if doc.LastSyncedAt != nil {
		cmd.Printf("Synced:   %s\n", doc.LastSyncedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
