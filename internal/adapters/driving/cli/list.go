package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the library",
	Long:  `Lists every document with its reading progress and sync status.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	docs, err := libraryService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents yet. Add one with: pacer add <file>")
		return nil
	}

	for i := range docs {
		d := &docs[i]
		cmd.Printf("  %s\n", d.ID)
		cmd.Printf("    Title:    %s\n", d.Title)
		cmd.Printf("    Progress: %.0f%% (%d/%d tokens)\n", d.Progress*100, d.TokenIndex, d.TokenCount)
		cmd.Printf("    Status:   %s\n", d.SyncStatus)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}
