package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fixfirst/internal/config"
	"fixfirst/internal/logging"
	"fixfirst/internal/store"
)

var (
	// Global flags
	verbose    bool
	dataDir    string
	configPath string

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fixfirst",
	Short: "FixFirst - municipal pothole reporting and triage",
	Long: `FixFirst tracks citizen-reported potholes through their full repair
lifecycle: intake, triage, crew assignment and resolution.

All state lives in a local database; AI features (photo classification,
repair briefs, the assistant) use the Gemini API when a key is configured
and degrade to an offline mock otherwise.

Run without arguments to start the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env next to the binary is the easiest place for GEMINI_API_KEY
		_ = godotenv.Load()

		if configPath == "" {
			configPath = filepath.Join(dataDir, "config.yaml")
		}
		if err := logging.Initialize(dataDir, configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging init failed: %v\n", err)
		}

		// The dashboard owns the terminal; zap stays quiet there
		if cmd.CalledAs() == "fixfirst" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", ".fixfirst", "Directory for the database, config and logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: <data-dir>/config.yaml)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(viewsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(aiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads config.yaml with env overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the blob store and the report store on top of it. The
// caller closes the returned BlobStore.
func openStore(cfg *config.Config) (*store.BlobStore, *store.Store, error) {
	dbPath := cfg.Storage.DatabasePath
	if dbPath != ":memory:" && !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(dataDir, dbPath)
	}

	blob, err := store.NewBlobStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	st, err := store.Open(blob)
	if err != nil {
		blob.Close()
		return nil, nil, fmt.Errorf("failed to open report store: %w", err)
	}
	return blob, st, nil
}
