package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/rehydra-go/internal/db"
	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// RememberContextInput defines the input schema for the remember_context tool.
type RememberContextInput struct {
	SessionID      string  `json:"session_id" jsonschema:"required,Session the context belongs to"`
	ContextType    string  `json:"context_type,omitempty" jsonschema:"conversation (default), preference, project_state or user_info"`
	ContextKey     string  `json:"context_key" jsonschema:"required,Unique key within session and type"`
	ContextValue   string  `json:"context_value" jsonschema:"required,The content to remember"`
	RelevanceScore float64 `json:"relevance_score,omitempty" jsonschema:"Relevance 0-1, default 0.5"`
	UserID         string  `json:"user_id,omitempty" jsonschema:"Owner for user-specific prioritization"`
	TTLSeconds     int     `json:"ttl_seconds,omitempty" jsonschema:"Seconds until the entry expires, 0 means never"`
}

func validContextType(t string) bool {
	switch t {
	case models.ContextConversation, models.ContextPreference, models.ContextProject, models.ContextUserInfo:
		return true
	}
	return false
}

// NewRememberContextHandler creates the remember_context tool handler.
// Upserts on (session_id, context_type, context_key); an existing entry is
// refreshed in place.
func NewRememberContextHandler(deps *Dependencies) mcp.ToolHandlerFor[RememberContextInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RememberContextInput) (
		*mcp.CallToolResult, any, error,
	) {
		if strings.TrimSpace(input.SessionID) == "" {
			return ErrorResult("session_id is required", "Provide the session to store context for"), nil, nil
		}
		if strings.TrimSpace(input.ContextKey) == "" {
			return ErrorResult("context_key is required", "Provide a key for this entry"), nil, nil
		}
		if strings.TrimSpace(input.ContextValue) == "" {
			return ErrorResult("context_value is required", "Provide the content to remember"), nil, nil
		}

		contextType := input.ContextType
		if contextType == "" {
			contextType = models.ContextConversation
		}
		if !validContextType(contextType) {
			return ErrorResult("Unknown context_type "+contextType,
				"Use conversation, preference, project_state or user_info"), nil, nil
		}

		relevance := input.RelevanceScore
		if relevance == 0 {
			relevance = 0.5
		}
		if relevance < 0 || relevance > 1 {
			return ErrorResult("relevance_score must be between 0 and 1", ""), nil, nil
		}

		params := db.UpsertContextParams{
			SessionID:      input.SessionID,
			ContextType:    contextType,
			ContextKey:     input.ContextKey,
			ContextValue:   input.ContextValue,
			RelevanceScore: relevance,
		}
		if input.UserID != "" {
			uid := input.UserID
			params.UserID = &uid
		}
		if input.TTLSeconds > 0 {
			expires := time.Now().Add(time.Duration(input.TTLSeconds) * time.Second)
			params.ExpiresAt = &expires
		}

		entry, err := deps.DB.UpsertContextEntry(ctx, params)
		if err != nil {
			deps.Logger.Error("remember_context failed",
				"session_id", input.SessionID, "key", input.ContextKey, "error", err)
			return ErrorResult("Failed to store context", "Database may be unavailable"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(entry, "", "  ")

		deps.Logger.Info("context stored",
			"session_id", input.SessionID,
			"type", contextType,
			"key", input.ContextKey,
		)
		return TextResult(string(jsonBytes)), nil, nil
	}
}
