// Package cli provides the command-line interface for rehydra.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/rehydra-go/internal/config"
	"github.com/raphaelgruber/rehydra-go/internal/db"
	"github.com/raphaelgruber/rehydra-go/internal/embedding"
	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/rehydrate"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and db client
	cfg      config.Config
	dbClient *db.Client
	logger   *slog.Logger

	// Per-process runtime counters
	collector = metrics.NewCollector()

	// Lazy-initialized embedder (write commands only)
	embedder embedding.Embedder
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rehydra",
	Short: "Session context rehydration engine",
	Long: `Rehydra stores conversation sessions and rebuilds their context on demand:
prioritized context entries, recent history and continuity scores, assembled
into a single bounded bundle.

Sessions, messages and context entries live in SurrealDB; rehydration results
are cached with a TTL.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Load config
		cfg = config.Load()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		// Connect to database
		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		// Initialize schema
		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Close database connection
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
	},
}

// newCacheManager builds the cache layer over the shared db client.
func newCacheManager() *rehydrate.CacheManager {
	return rehydrate.NewCacheManager(dbClient, cfg.CacheTTL, cfg.MaxCacheSize, collector, logger)
}

// newEngine wires the rehydration engine for one command invocation.
func newEngine() *rehydrate.Orchestrator {
	detector := rehydrate.NewContinuityDetector(dbClient, logger)
	scorer := rehydrate.NewScorer(dbClient, detector, logger)
	prioritizer := rehydrate.NewPrioritizer(dbClient, logger)
	return rehydrate.NewOrchestrator(dbClient, newCacheManager(), scorer, prioritizer, nil, collector, logger)
}

// getEmbedder creates the embedder on first use. Commands that never write
// messages skip Ollama entirely.
func getEmbedder() (embedding.Embedder, error) {
	if embedder == nil {
		e, err := embedding.New(embedding.Config{
			Host:  cfg.OllamaHost,
			Model: cfg.EmbeddingModel,
		})
		if err != nil {
			return nil, fmt.Errorf("init embedder: %w", err)
		}
		embedder = e
	}
	return embedder, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(rehydrateCmd)
	rootCmd.AddCommand(appendCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sweepCmd)
}
