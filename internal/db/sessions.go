// Package db provides SurrealDB query functions for session operations.
package db

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// GetSession retrieves a session by its session_id.
// Returns nil if not found.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		SELECT * FROM session WHERE session_id = $sid LIMIT 1
	`, map[string]any{"sid": sessionID})

	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// EnsureSession creates the session row if it does not exist and bumps
// last_activity and message_count. Called on every message append, so the
// record is keyed by session_id for a cheap upsert.
func (c *Client) EnsureSession(ctx context.Context, sessionID string, userID *string) (*models.Session, error) {
	sql := `
		UPSERT type::record("session", $sid) SET
			session_id = $sid,
			user_id = user_id ?? $user,
			status = status ?? "active",
			created_at = IF created_at THEN created_at ELSE time::now() END,
			last_activity = time::now(),
			relevance_score = relevance_score ?? 1.0,
			message_count = (message_count ?? 0) + 1
		RETURN AFTER
	`

	results, err := surrealdb.Query[[]models.Session](ctx, c.db, sql, map[string]any{
		"sid":  sessionID,
		"user": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("ensure session: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("ensure session: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// ListSessions returns sessions ordered by last activity (most recent first).
func (c *Client) ListSessions(ctx context.Context, limit int) ([]models.Session, error) {
	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		SELECT * FROM session ORDER BY last_activity DESC LIMIT $limit
	`, map[string]any{"limit": limit})

	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Session{}, nil
	}
	return (*results)[0].Result, nil
}

// UpdateSessionSummary stores a context summary on the session.
func (c *Client) UpdateSessionSummary(ctx context.Context, sessionID, summary string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE session SET context_summary = $summary WHERE session_id = $sid
	`, map[string]any{"sid": sessionID, "summary": summary})
	if err != nil {
		return fmt.Errorf("update session summary: %w", err)
	}
	return nil
}
