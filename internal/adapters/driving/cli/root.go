// Package cli implements the pacer command-line interface and wires the
// application services together at startup.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/config/file"
	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/remote"
	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driving"
	"github.com/pacerlabs/pacer-cli/internal/core/services"
	"github.com/pacerlabs/pacer-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services resolved during PersistentPreRunE. Tests inject mocks here and
// set initialised to bypass wiring.
var (
	libraryService   driving.Library
	syncManager      driving.SyncManager
	migrationService driving.MigrationService
	configStore      driven.ConfigStore
	remoteStore      *remote.Store
	sqliteStore      *sqlite.Store

	initialised bool
)

// Persistent flags.
var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "pacer",
	Short: "Read documents at speed, one chunk at a time",
	Long: `Pacer is a local-first speed reader. Documents are segmented into
timed tokens and stored locally in SQLite; an optional account syncs the
library across devices.

Start by adding a document:

  pacer add notes.txt
  pacer read <doc-id>`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if sqliteStore != nil {
			_ = sqliteStore.Close()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initServices builds the service graph: config, local store, and, when
// credentials are present, the remote backend with its sync and migration
// services.
func initServices(_ *cobra.Command, _ []string) error {
	if initialised {
		return nil
	}

	// Best effort; a .env file is a dev convenience.
	_ = godotenv.Load()

	cfg, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	configStore = cfg

	if flagVerbose || cfg.GetBool(file.KeyVerbose) {
		logger.SetVerbose(true)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.GetString(file.KeyDataDir)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	sqliteStore = store
	local := store.DocumentStore()

	serverURL := envOr("PACER_SERVER_URL", cfg.GetString(file.KeyServerURL))
	token := envOr("PACER_TOKEN", cfg.GetString(file.KeyAuthToken))

	var remoteDocs driven.DocumentStore
	if serverURL != "" && token != "" {
		remoteStore = remote.NewStore(serverURL, token)
		remoteDocs = remoteStore
		syncManager = services.NewSyncManager(local, remoteDocs)
		migrationService = services.NewMigrationService(local, remoteDocs, store.MigrationStateStore())
	}

	libraryService = services.NewLibrary(local, remoteDocs)

	initialised = true
	return nil
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(
		&flagDataDir, "data-dir", "", "Directory for the local database (default ~/.pacer/data)")
	rootCmd.PersistentFlags().StringVar(
		&flagConfigDir, "config-dir", "", "Directory for the config file (default ~/.pacer)")
}
