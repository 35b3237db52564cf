package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Context entry types.
const (
	ContextConversation = "conversation"
	ContextPreference   = "preference"
	ContextProject      = "project"
	ContextUserInfo     = "user_info"
)

// ContextEntry is a session-scoped fact, preference, or conversational
// snippet. Unique per (session_id, context_type, context_key). Entries with
// a past expires_at are invisible to prioritization.
type ContextEntry struct {
	ID             surrealmodels.RecordID `json:"id"`
	SessionID      string                 `json:"session_id"`
	ContextType    string                 `json:"context_type"`
	ContextKey     string                 `json:"context_key"`
	ContextValue   string                 `json:"context_value"`
	RelevanceScore float64                `json:"relevance_score"`
	UserID         *string                `json:"user_id,omitempty"`
	ExpiresAt      *time.Time             `json:"expires_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}
