package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Ping tool - liveness check
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Rehydrate tool - the main entry point
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rehydrate",
		Description: "Reconstruct the context bundle for a session: prioritized context, conversation history and quality scores",
	}, NewRehydrateHandler(deps))

	// Merge tool - combine context entries into one bounded string
	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_contexts",
		Description: "Merge a session's context entries by relevance or token similarity under a length budget",
	}, NewMergeHandler(deps))

	// Remember tool - store or refresh a context entry
	mcp.AddTool(server, &mcp.Tool{
		Name:        "remember_context",
		Description: "Store a context entry for later rehydration, keyed by session, type and key",
	}, NewRememberContextHandler(deps))

	// Append tool - record a conversation turn
	mcp.AddTool(server, &mcp.Tool{
		Name:        "append_message",
		Description: "Append a conversation message to a session, creating the session on first write",
	}, NewAppendMessageHandler(deps))

	// Stats tool - operational aggregates
	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_stats",
		Description: "Report session counts, average continuity and quality, and cache hit ratio",
	}, NewSessionStatsHandler(deps))
}
