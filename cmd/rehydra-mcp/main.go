// Package main provides the entry point for the rehydra MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/rehydra-go/internal/config"
	"github.com/raphaelgruber/rehydra-go/internal/db"
	"github.com/raphaelgruber/rehydra-go/internal/embedding"
	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/rehydrate"
	"github.com/raphaelgruber/rehydra-go/internal/server"
	"github.com/raphaelgruber/rehydra-go/internal/tools"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("rehydra starting",
		"version", version,
		"surrealdb_url", cfg.SurrealDBURL,
		"cache_ttl", cfg.CacheTTL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	dbCfg := db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}

	dbClient, err := db.NewClient(ctx, dbCfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing database connection")
		_ = dbClient.Close(ctx)
	}()

	// Initialize database schema
	if err := dbClient.InitSchema(ctx); err != nil {
		logger.Error("failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	// Create embedder (no-op when no Ollama host is configured)
	embedder, err := embedding.New(embedding.Config{
		Host:  cfg.OllamaHost,
		Model: cfg.EmbeddingModel,
	})
	if err != nil {
		logger.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}

	// Wire the rehydration engine
	collector := metrics.NewCollector()
	cacheMgr := rehydrate.NewCacheManager(dbClient, cfg.CacheTTL, cfg.MaxCacheSize, collector, logger)
	detector := rehydrate.NewContinuityDetector(dbClient, logger)
	scorer := rehydrate.NewScorer(dbClient, detector, logger)
	prioritizer := rehydrate.NewPrioritizer(dbClient, logger)
	engine := rehydrate.NewOrchestrator(dbClient, cacheMgr, scorer, prioritizer, nil, collector, logger)
	stats := rehydrate.NewStatisticsCollector(dbClient, collector, logger)
	merger := rehydrate.NewMerger(dbClient, logger)

	// Background cache expiry
	go cacheMgr.RunSweeper(ctx, cfg.SweepInterval)

	// Create and setup server
	srv := server.New(version, logger)
	srv.Setup()

	// Register tools
	deps := &tools.Dependencies{
		DB:       dbClient,
		Engine:   engine,
		Merger:   merger,
		Stats:    stats,
		Embedder: embedder,
		Metrics:  collector,
		Logger:   logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)

	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
