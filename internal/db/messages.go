package db

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// CreateMessageParams holds the fields for appending a message.
type CreateMessageParams struct {
	SessionID       string
	UserID          *string
	Role            string
	Content         string
	RelevanceScore  float64
	Embedding       []float32
	ParentMessageID *string
	Metadata        map[string]any
}

// NextMessageIndex returns the next free message_index for a session.
// Concurrent writers may race here; the unique (session_id, message_index)
// index is the sole arbiter and a loser surfaces ErrDuplicateIndex.
func (c *Client) NextMessageIndex(ctx context.Context, sessionID string) (int, error) {
	results, err := surrealdb.Query[[]int](ctx, c.db, `
		SELECT VALUE message_index FROM message
		WHERE session_id = $sid
		ORDER BY message_index DESC LIMIT 1
	`, map[string]any{"sid": sessionID})
	if err != nil {
		return 0, fmt.Errorf("next message index: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0] + 1, nil
}

// AppendMessage inserts a message with the next message_index and bumps the
// session's activity. Creates the session on first message.
func (c *Client) AppendMessage(ctx context.Context, p CreateMessageParams) (*models.Message, error) {
	index, err := c.NextMessageIndex(ctx, p.SessionID)
	if err != nil {
		return nil, err
	}

	results, err := surrealdb.Query[[]models.Message](ctx, c.db, `
		CREATE message SET
			session_id = $sid,
			role = $role,
			content = $content,
			timestamp = time::now(),
			message_index = $index,
			relevance_score = $rel,
			embedding = $embedding,
			parent_message_id = $parent,
			metadata = $meta
		RETURN AFTER
	`, map[string]any{
		"sid":       p.SessionID,
		"role":      p.Role,
		"content":   p.Content,
		"index":     index,
		"rel":       p.RelevanceScore,
		"embedding": p.Embedding,
		"parent":    p.ParentMessageID,
		"meta":      p.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("append message: no result returned")
	}

	if _, err := c.EnsureSession(ctx, p.SessionID, p.UserID); err != nil {
		return nil, err
	}

	return &(*results)[0].Result[0], nil
}

// RecentMessages returns up to limit messages for a session, newest first
// by message_index. Callers re-order chronologically as needed.
func (c *Client) RecentMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	results, err := surrealdb.Query[[]models.Message](ctx, c.db, `
		SELECT * FROM message
		WHERE session_id = $sid
		ORDER BY message_index DESC
		LIMIT $limit
	`, map[string]any{"sid": sessionID, "limit": limit})

	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Message{}, nil
	}
	return (*results)[0].Result, nil
}

// GetMessage retrieves a message by its record ID.
// Used for on-demand parent thread lookup; returns nil if not found.
func (c *Client) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	results, err := surrealdb.Query[[]models.Message](ctx, c.db, `
		SELECT * FROM type::record("message", $id)
	`, map[string]any{"id": id})

	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}
