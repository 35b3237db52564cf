package rehydrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// StatisticsCollector aggregates stored sessions and runtime metrics for
// operational dashboards. Pure read path; no side effects.
type StatisticsCollector struct {
	store   StatsStore
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewStatisticsCollector creates a statistics collector.
func NewStatisticsCollector(store StatsStore, collector *metrics.Collector, logger *slog.Logger) *StatisticsCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatisticsCollector{store: store, metrics: collector, logger: logger}
}

// Stats returns the aggregated view. If sessionID is non-nil the store
// aggregates are scoped to that session; runtime counters are process-wide
// either way.
func (s *StatisticsCollector) Stats(ctx context.Context, sessionID *string) (*models.SessionStats, error) {
	agg, err := s.store.QuerySessionAggregates(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session aggregates: %w", err)
	}

	stats := &models.SessionStats{
		TotalSessions:         agg.TotalSessions,
		ActiveSessions:        agg.ActiveSessions,
		AvgContinuity:         agg.AvgContinuity,
		AvgRehydrationQuality: agg.AvgQuality,
	}
	if agg.TotalSessions > 0 {
		stats.AvgContextCount = float64(agg.ContextRows) / float64(agg.TotalSessions)
	}

	if s.metrics != nil {
		snap := s.metrics.Snapshot()
		stats.CacheHitRatio = snap.CacheHitRatio
		stats.OperationCount = snap.TotalOps
	}

	return stats, nil
}
