// Package models defines data structures for the rehydra session store.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Session statuses.
const (
	SessionActive   = "active"
	SessionArchived = "archived"
)

// Session represents a persistent conversation session.
// Sessions are created on first message and never hard-deleted by the engine.
type Session struct {
	ID             surrealmodels.RecordID `json:"id"`
	SessionID      string                 `json:"session_id"`
	UserID         *string                `json:"user_id,omitempty"`
	Status         string                 `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	LastActivity   time.Time              `json:"last_activity"`
	RelevanceScore float64                `json:"relevance_score"`
	ContextSummary *string                `json:"context_summary,omitempty"`
	MessageCount   int                    `json:"message_count"`
}
