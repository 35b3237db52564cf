package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SessionStatsInput defines the input schema for the session_stats tool.
type SessionStatsInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Scope aggregates to one session; omit for store-wide stats"`
}

// NewSessionStatsHandler creates the session_stats tool handler.
func NewSessionStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[SessionStatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SessionStatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		var sessionID *string
		if input.SessionID != "" {
			sid := input.SessionID
			sessionID = &sid
		}

		stats, err := deps.Stats.Stats(ctx, sessionID)
		if err != nil {
			deps.Logger.Error("session_stats failed", "error", err)
			return ErrorResult("Failed to collect statistics", "Database may be unavailable"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(stats, "", "  ")
		return TextResult(string(jsonBytes)), nil, nil
	}
}
