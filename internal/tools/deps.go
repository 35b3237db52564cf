// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/raphaelgruber/rehydra-go/internal/db"
	"github.com/raphaelgruber/rehydra-go/internal/embedding"
	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/rehydrate"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	DB       *db.Client
	Engine   *rehydrate.Orchestrator
	Merger   *rehydrate.Merger
	Stats    *rehydrate.StatisticsCollector
	Embedder embedding.Embedder
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}
