package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Message roles.
const (
	RoleHuman  = "human"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// Message is a single conversation turn within a session.
// MessageIndex is strictly increasing and unique per session; the storage
// layer enforces the uniqueness constraint, not the engine.
type Message struct {
	ID              surrealmodels.RecordID `json:"id"`
	SessionID       string                 `json:"session_id"`
	Role            string                 `json:"role"`
	Content         string                 `json:"content"`
	Timestamp       time.Time              `json:"timestamp"`
	MessageIndex    int                    `json:"message_index"`
	RelevanceScore  float64                `json:"relevance_score"`
	Embedding       []float32              `json:"embedding,omitempty"`
	ParentMessageID *string                `json:"parent_message_id,omitempty"`

	// Metadata is pass-through only; the engine never interprets it.
	Metadata map[string]any `json:"metadata,omitempty"`
}
