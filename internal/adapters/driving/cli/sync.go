package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync [doc-id]",
	Short: "Synchronise the library with the server",
	Long: `Uploads pending local documents and downloads remote changes.
If a document ID is provided, only that document is synchronised.

The newer side wins per document, by update time. Requires an account;
run 'pacer login' first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncManager == nil {
		return fmt.Errorf("no account configured, run 'pacer login' first: %w", domain.ErrNotAuthenticated)
	}

	ctx := context.Background()

	// The manager starts offline; probe the server before syncing.
	if remoteStore != nil {
		syncManager.SetOnline(remoteStore.Healthy(ctx))
	}

	if len(args) > 0 {
		docID := args[0]
		cmd.Printf("Synchronising document %s...\n", docID)

		if err := syncManager.SyncDocument(ctx, docID); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		cmd.Println("Document synchronised.")
		return nil
	}

	cmd.Println("Synchronising library...")

	result, err := syncManager.SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Uploaded %d, downloaded %d\n", result.Uploaded, result.Downloaded)
	for _, syncErr := range result.Errors {
		cmd.Printf("  error: %s: %v\n", syncErr.Title, syncErr.Err)
	}

	snapshot := syncManager.Snapshot()
	if snapshot.PendingCount > 0 {
		cmd.Printf("%d documents still pending\n", snapshot.PendingCount)
	}
	return nil
}
