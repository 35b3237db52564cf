package db

import (
	"context"
	"fmt"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// UpsertContextParams holds the fields for storing a context entry.
type UpsertContextParams struct {
	SessionID      string
	ContextType    string
	ContextKey     string
	ContextValue   string
	RelevanceScore float64
	UserID         *string
	ExpiresAt      *time.Time
}

// UpsertContextEntry creates or updates a context entry. Uniqueness is
// (session_id, context_type, context_key); an existing entry is overwritten
// in place so tagging logic can refresh values and expiry.
func (c *Client) UpsertContextEntry(ctx context.Context, p UpsertContextParams) (*models.ContextEntry, error) {
	// Check for an existing entry to decide between UPDATE and CREATE
	existing, err := surrealdb.Query[[]models.ContextEntry](ctx, c.db, `
		SELECT * FROM context_entry
		WHERE session_id = $sid AND context_type = $type AND context_key = $key
		LIMIT 1
	`, map[string]any{"sid": p.SessionID, "type": p.ContextType, "key": p.ContextKey})
	if err != nil {
		return nil, fmt.Errorf("check context entry: %w", err)
	}

	vars := map[string]any{
		"sid":     p.SessionID,
		"type":    p.ContextType,
		"key":     p.ContextKey,
		"value":   p.ContextValue,
		"rel":     p.RelevanceScore,
		"user":    p.UserID,
		"expires": p.ExpiresAt,
	}

	var sql string
	if existing != nil && len(*existing) > 0 && len((*existing)[0].Result) > 0 {
		vars["id"] = models.MustRecordIDString((*existing)[0].Result[0].ID)
		sql = `
			UPDATE type::record("context_entry", $id) SET
				context_value = $value,
				relevance_score = $rel,
				user_id = $user,
				expires_at = $expires
			RETURN AFTER
		`
	} else {
		sql = `
			CREATE context_entry SET
				session_id = $sid,
				context_type = $type,
				context_key = $key,
				context_value = $value,
				relevance_score = $rel,
				user_id = $user,
				expires_at = $expires,
				created_at = time::now()
			RETURN AFTER
		`
	}

	results, err := surrealdb.Query[[]models.ContextEntry](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("upsert context entry: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("upsert context entry: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// ActiveContextEntries returns unexpired context entries for a session with
// relevance_score >= minRelevance, ordered by relevance then recency.
func (c *Client) ActiveContextEntries(ctx context.Context, sessionID string, minRelevance float64) ([]models.ContextEntry, error) {
	results, err := surrealdb.Query[[]models.ContextEntry](ctx, c.db, `
		SELECT * FROM context_entry
		WHERE session_id = $sid
			AND relevance_score >= $min
			AND (expires_at IS NONE OR expires_at > time::now())
		ORDER BY relevance_score DESC, created_at DESC
	`, map[string]any{"sid": sessionID, "min": minRelevance})

	if err != nil {
		return nil, fmt.Errorf("active context entries: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.ContextEntry{}, nil
	}
	return (*results)[0].Result, nil
}

// contextActivityRow matches the continuity aggregation result.
type contextActivityRow struct {
	Count int        `json:"count"`
	Last  *time.Time `json:"last"`
}

// ContextActivity returns the most recent context entry time and the number
// of context rows for a session. Both are zero-valued when the session has
// no context.
func (c *Client) ContextActivity(ctx context.Context, sessionID string) (*time.Time, int, error) {
	results, err := surrealdb.Query[[]contextActivityRow](ctx, c.db, `
		SELECT count() AS count, time::max(created_at) AS last
		FROM context_entry
		WHERE session_id = $sid
		GROUP ALL
	`, map[string]any{"sid": sessionID})

	if err != nil {
		return nil, 0, fmt.Errorf("context activity: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, 0, nil
	}
	row := (*results)[0].Result[0]
	return row.Last, row.Count, nil
}

// contextAggregateRow matches the richness aggregation result.
type contextAggregateRow struct {
	Count        int     `json:"count"`
	AvgRelevance float64 `json:"avg_relevance"`
}

// ContextAggregates returns the count and mean relevance of unexpired
// context entries for a session.
func (c *Client) ContextAggregates(ctx context.Context, sessionID string) (int, float64, error) {
	results, err := surrealdb.Query[[]contextAggregateRow](ctx, c.db, `
		SELECT count() AS count, math::mean(relevance_score) AS avg_relevance
		FROM context_entry
		WHERE session_id = $sid
			AND (expires_at IS NONE OR expires_at > time::now())
		GROUP ALL
	`, map[string]any{"sid": sessionID})

	if err != nil {
		return 0, 0, fmt.Errorf("context aggregates: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, 0, nil
	}
	row := (*results)[0].Result[0]
	return row.Count, row.AvgRelevance, nil
}

// CountUserContext returns how many unexpired context entries in a session
// belong to the given user.
func (c *Client) CountUserContext(ctx context.Context, sessionID, userID string) (int, error) {
	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `
		SELECT count() AS count FROM context_entry
		WHERE session_id = $sid
			AND user_id = $user
			AND (expires_at IS NONE OR expires_at > time::now())
		GROUP ALL
	`, map[string]any{"sid": sessionID, "user": userID})

	if err != nil {
		return 0, fmt.Errorf("count user context: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}
