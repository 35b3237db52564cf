package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/rehydra-go/internal/rehydrate"
)

// RehydrateInput defines the input schema for the rehydrate tool.
type RehydrateInput struct {
	SessionID        string `json:"session_id" jsonschema:"required,Session to rehydrate"`
	UserID           string `json:"user_id,omitempty" jsonschema:"User whose context gets priority"`
	MaxContextLength int    `json:"max_context_length,omitempty" jsonschema:"Context budget in characters, default 10000"`
	IncludeHistory   *bool  `json:"include_history,omitempty" jsonschema:"Include recent conversation history, default true"`
	HistoryLimit     int    `json:"history_limit,omitempty" jsonschema:"Max history messages, default 20"`
}

// NewRehydrateHandler creates the rehydrate tool handler. Returns the full
// context bundle as JSON; a session with no stored context yields a valid
// degraded bundle rather than an error.
func NewRehydrateHandler(deps *Dependencies) mcp.ToolHandlerFor[RehydrateInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RehydrateInput) (
		*mcp.CallToolResult, any, error,
	) {
		if strings.TrimSpace(input.SessionID) == "" {
			return ErrorResult("session_id is required", "Provide the session to rehydrate"), nil, nil
		}

		opts := rehydrate.DefaultOptions()
		if input.UserID != "" {
			uid := input.UserID
			opts.UserID = &uid
		}
		if input.MaxContextLength > 0 {
			opts.MaxContextLength = input.MaxContextLength
		}
		if input.IncludeHistory != nil {
			opts.IncludeHistory = *input.IncludeHistory
		}
		if input.HistoryLimit > 0 {
			opts.HistoryLimit = input.HistoryLimit
		}

		bundle, err := deps.Engine.Rehydrate(ctx, input.SessionID, opts)
		if err != nil {
			if errors.Is(err, rehydrate.ErrInvalidInput) {
				return ErrorResult("session_id is required", "Provide the session to rehydrate"), nil, nil
			}
			deps.Logger.Error("rehydration failed", "session_id", input.SessionID, "error", err)
			return ErrorResult("Rehydration failed", "Database may be unavailable"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(bundle, "", "  ")
		return TextResult(string(jsonBytes)), nil, nil
	}
}
