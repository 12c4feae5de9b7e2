package cli

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/config/file"
	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/remote"
	"github.com/pacerlabs/pacer-cli/internal/core/services"
)

var loginCmd = &cobra.Command{
	Use:   "login [server-url]",
	Short: "Connect to a pacer server",
	Long: `Stores the server URL and access token in the config file, then
migrates any pre-existing local documents to the account. Migration runs
once; documents that fail stay local and are retried on the next login.

Examples:
  pacer login https://pacer.example.com
  pacer login https://pacer.example.com --token pk_xxx`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored server credentials",
	RunE:  runLogout,
}

// loginToken is a flag for the login command.
var loginToken string

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Access token (prompted for if omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	serverURL := strings.TrimRight(args[0], "/")
	token := loginToken
	if token == "" {
		var err error
		token, err = promptToken(cmd)
		if err != nil {
			return err
		}
	}
	if token == "" {
		return errors.New("no token provided")
	}

	ctx := context.Background()

	// Verify credentials before persisting them.
	store := remote.NewStore(serverURL, token)
	if !store.Healthy(ctx) {
		return fmt.Errorf("could not reach %s", serverURL)
	}
	if _, err := store.ListDocuments(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := configStore.Set(file.KeyServerURL, serverURL); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err := configStore.Set(file.KeyAuthToken, token); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cmd.Printf("Logged in to %s\n", serverURL)

	return migrateLocalDocuments(ctx, cmd, store, accountIdentity(serverURL, token))
}

// accountIdentity derives the migration identity for a server/token pair.
// Hashed so the raw token never lands in the database.
func accountIdentity(serverURL, token string) string {
	sum := sha256.Sum256([]byte(serverURL + "\x00" + token))
	return hex.EncodeToString(sum[:])
}

// migrateLocalDocuments performs the one-time upload of documents created
// before the account existed.
func migrateLocalDocuments(ctx context.Context, cmd *cobra.Command, store *remote.Store, identity string) error {
	if sqliteStore == nil {
		return nil
	}

	svc := services.NewMigrationService(
		sqliteStore.DocumentStore(), store, sqliteStore.MigrationStateStore())

	has, err := svc.HasLocalDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to check local documents: %w", err)
	}
	if !has {
		return nil
	}

	cmd.Println("Migrating local documents to your account...")

	result, err := svc.Migrate(ctx, identity)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if result.Total == 0 {
		return nil
	}

	cmd.Printf("Migrated %d of %d documents\n", result.Migrated, result.Total)
	for _, title := range result.Failed {
		cmd.Printf("  kept local: %s\n", title)
	}
	if len(result.Failed) > 0 {
		cmd.Println("Failed documents stay local; run 'pacer login' again to retry.")
	}
	return nil
}

// promptToken reads the token without echo when stdin is a terminal.
func promptToken(cmd *cobra.Command) (string, error) {
	cmd.Print("Token: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set(file.KeyAuthToken, ""); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cmd.Println("Logged out. Local documents are untouched.")
	return nil
}
