package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/rehydrate"
)

// MergeInput defines the input schema for the merge_contexts tool.
type MergeInput struct {
	SessionID           string  `json:"session_id" jsonschema:"required,Session whose contexts get merged"`
	Strategy            string  `json:"strategy,omitempty" jsonschema:"Merge strategy: relevance (default) or similarity"`
	MaxLength           int     `json:"max_length,omitempty" jsonschema:"Merged content budget in characters, default 10000"`
	RelevanceThreshold  float64 `json:"relevance_threshold,omitempty" jsonschema:"Minimum relevance for candidates, default 0.7"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" jsonschema:"Token similarity cutoff for clustering, default 0.8"`
}

// NewMergeHandler creates the merge_contexts tool handler.
func NewMergeHandler(deps *Dependencies) mcp.ToolHandlerFor[MergeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input MergeInput) (
		*mcp.CallToolResult, any, error,
	) {
		if strings.TrimSpace(input.SessionID) == "" {
			return ErrorResult("session_id is required", "Provide the session whose contexts to merge"), nil, nil
		}

		opts := rehydrate.MergeOptions{
			Strategy:            input.Strategy,
			MaxLength:           input.MaxLength,
			RelevanceThreshold:  input.RelevanceThreshold,
			SimilarityThreshold: input.SimilarityThreshold,
		}
		if opts.MaxLength <= 0 {
			opts.MaxLength = rehydrate.DefaultMaxContextLength
		}
		if opts.RelevanceThreshold <= 0 {
			opts.RelevanceThreshold = rehydrate.DefaultMergeThreshold
		}

		start := time.Now()
		result, err := deps.Merger.Merge(ctx, input.SessionID, opts)
		if err != nil {
			if strings.Contains(err.Error(), "unknown merge strategy") {
				return ErrorResult("Unknown merge strategy", "Use relevance or similarity"), nil, nil
			}
			deps.Logger.Error("merge failed", "session_id", input.SessionID, "error", err)
			return ErrorResult("Merge failed", "Database may be unavailable"), nil, nil
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordTiming(metrics.OpMerge, time.Since(start))
		}

		jsonBytes, _ := json.MarshalIndent(result, "", "  ")

		deps.Logger.Info("merge completed",
			"session_id", input.SessionID,
			"strategy", result.Strategy,
			"sources", result.SourceCount,
		)
		return TextResult(string(jsonBytes)), nil, nil
	}
}
