package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/rehydra-go/internal/db"
	"github.com/raphaelgruber/rehydra-go/internal/models"
)

var (
	rememberType      string
	rememberRelevance float64
	rememberUser      string
	rememberTTL       time.Duration
)

var rememberCmd = &cobra.Command{
	Use:   "remember <session-id> <key> <value>",
	Short: "Store a context entry for later rehydration",
	Long: `Store a context entry keyed by session, type and key. Storing an existing
key refreshes the value, relevance and expiry in place.

Context types: conversation, preference, project_state, user_info.

Examples:
  rehydra remember sess-42 decision "we use SurrealDB for storage"
  rehydra remember sess-42 editor "prefers vim bindings" --type preference --user u1
  rehydra remember sess-42 branch "working on feature/cache" --type project_state --ttl 24h`,
	Args: cobra.ExactArgs(3),
	RunE: runRemember,
}

func init() {
	rememberCmd.Flags().StringVarP(&rememberType, "type", "t", models.ContextConversation, "context type")
	rememberCmd.Flags().Float64VarP(&rememberRelevance, "relevance", "r", 0.5, "relevance score 0-1")
	rememberCmd.Flags().StringVarP(&rememberUser, "user", "u", "", "owner for user-specific prioritization")
	rememberCmd.Flags().DurationVar(&rememberTTL, "ttl", 0, "time until the entry expires (0 = never)")
}

func runRemember(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	switch rememberType {
	case models.ContextConversation, models.ContextPreference, models.ContextProject, models.ContextUserInfo:
	default:
		return fmt.Errorf("unknown context type %q", rememberType)
	}
	if rememberRelevance < 0 || rememberRelevance > 1 {
		return fmt.Errorf("relevance must be between 0 and 1")
	}

	params := db.UpsertContextParams{
		SessionID:      args[0],
		ContextType:    rememberType,
		ContextKey:     args[1],
		ContextValue:   args[2],
		RelevanceScore: rememberRelevance,
	}
	if rememberUser != "" {
		params.UserID = &rememberUser
	}
	if rememberTTL > 0 {
		expires := time.Now().Add(rememberTTL)
		params.ExpiresAt = &expires
	}

	entry, err := dbClient.UpsertContextEntry(ctx, params)
	if err != nil {
		return fmt.Errorf("store context: %w", err)
	}

	fmt.Printf("Stored %s/%s for %s (relevance %.2f)\n",
		entry.ContextType, entry.ContextKey, entry.SessionID, entry.RelevanceScore)
	return nil
}
