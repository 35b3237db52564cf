package db

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

type sessionCountRow struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

type cacheScoreRow struct {
	AvgContinuity float64 `json:"avg_continuity"`
	AvgQuality    float64 `json:"avg_quality"`
}

// QuerySessionAggregates computes read-only aggregates over sessions,
// context entries and cached rehydration scores. If sessionID is non-nil the
// aggregation is scoped to that session.
func (c *Client) QuerySessionAggregates(ctx context.Context, sessionID *string) (*models.StoreAggregates, error) {
	filter := ""
	vars := map[string]any{}
	if sessionID != nil {
		filter = "WHERE session_id = $sid"
		vars["sid"] = *sessionID
	}

	agg := &models.StoreAggregates{}

	sessions, err := surrealdb.Query[[]sessionCountRow](ctx, c.db, fmt.Sprintf(`
		SELECT count() AS total, count(status = "active") AS active
		FROM session %s GROUP ALL
	`, filter), vars)
	if err != nil {
		return nil, fmt.Errorf("session aggregates: %w", err)
	}
	if sessions != nil && len(*sessions) > 0 && len((*sessions)[0].Result) > 0 {
		agg.TotalSessions = (*sessions)[0].Result[0].Total
		agg.ActiveSessions = (*sessions)[0].Result[0].Active
	}

	contexts, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, fmt.Sprintf(`
		SELECT count() AS count FROM context_entry %s GROUP ALL
	`, filter), vars)
	if err != nil {
		return nil, fmt.Errorf("context aggregates: %w", err)
	}
	if contexts != nil && len(*contexts) > 0 && len((*contexts)[0].Result) > 0 {
		agg.ContextRows = (*contexts)[0].Result[0].Count
	}

	scores, err := surrealdb.Query[[]cacheScoreRow](ctx, c.db, fmt.Sprintf(`
		SELECT math::mean(continuity_score) AS avg_continuity,
			math::mean(quality_score) AS avg_quality
		FROM rehydration_cache %s GROUP ALL
	`, filter), vars)
	if err != nil {
		return nil, fmt.Errorf("cache score aggregates: %w", err)
	}
	if scores != nil && len(*scores) > 0 && len((*scores)[0].Result) > 0 {
		agg.AvgContinuity = (*scores)[0].Result[0].AvgContinuity
		agg.AvgQuality = (*scores)[0].Result[0].AvgQuality
	}

	return agg, nil
}
