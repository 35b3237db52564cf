package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/rehydra-go/internal/db"
	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// AppendMessageInput defines the input schema for the append_message tool.
type AppendMessageInput struct {
	SessionID string         `json:"session_id" jsonschema:"required,Session to append to"`
	Role      string         `json:"role" jsonschema:"required,human, ai or system"`
	Content   string         `json:"content" jsonschema:"required,Message text"`
	UserID    string         `json:"user_id,omitempty" jsonschema:"Author user id"`
	Metadata  map[string]any `json:"metadata,omitempty" jsonschema:"Free-form metadata"`
}

func validRole(role string) bool {
	switch role {
	case models.RoleHuman, models.RoleAI, models.RoleSystem:
		return true
	}
	return false
}

// NewAppendMessageHandler creates the append_message tool handler. The first
// message for a session creates the session row. Embedding is best-effort:
// a failed vector never blocks the write.
func NewAppendMessageHandler(deps *Dependencies) mcp.ToolHandlerFor[AppendMessageInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AppendMessageInput) (
		*mcp.CallToolResult, any, error,
	) {
		if strings.TrimSpace(input.SessionID) == "" {
			return ErrorResult("session_id is required", "Provide the session to append to"), nil, nil
		}
		if !validRole(input.Role) {
			return ErrorResult("Unknown role "+input.Role, "Use human, ai or system"), nil, nil
		}
		if strings.TrimSpace(input.Content) == "" {
			return ErrorResult("content is required", "Provide the message text"), nil, nil
		}

		vector, err := deps.Embedder.Embed(ctx, input.Content)
		if err != nil {
			deps.Logger.Warn("embedding failed, storing message without vector",
				"session_id", input.SessionID, "error", err)
			vector = nil
		}

		params := db.CreateMessageParams{
			SessionID:      input.SessionID,
			Role:           input.Role,
			Content:        input.Content,
			RelevanceScore: 0.5,
			Embedding:      vector,
			Metadata:       input.Metadata,
		}
		if input.UserID != "" {
			uid := input.UserID
			params.UserID = &uid
		}

		msg, err := deps.DB.AppendMessage(ctx, params)
		if err != nil {
			deps.Logger.Error("append_message failed", "session_id", input.SessionID, "error", err)
			return ErrorResult("Failed to append message", "Database may be unavailable"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(msg, "", "  ")

		deps.Logger.Info("message appended",
			"session_id", input.SessionID,
			"role", input.Role,
			"index", msg.MessageIndex,
		)
		return TextResult(string(jsonBytes)), nil, nil
	}
}
