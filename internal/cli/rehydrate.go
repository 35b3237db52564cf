package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/rehydra-go/internal/rehydrate"
)

var (
	rehydrateUser         string
	rehydrateMaxLength    int
	rehydrateNoHistory    bool
	rehydrateHistoryLimit int
	rehydrateJSON         bool
)

var rehydrateCmd = &cobra.Command{
	Use:   "rehydrate <session-id>",
	Short: "Rebuild the context bundle for a session",
	Long: `Rebuild the context bundle for a session: prioritized context entries
packed under a length budget, recent conversation history, and
continuity/quality scores.

A session with no stored context produces an empty bundle with zero scores.

Examples:
  rehydra rehydrate sess-42
  rehydra rehydrate sess-42 --user u1 --max-length 4000
  rehydra rehydrate sess-42 --no-history --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRehydrate,
}

func init() {
	rehydrateCmd.Flags().StringVarP(&rehydrateUser, "user", "u", "", "user whose context gets priority")
	rehydrateCmd.Flags().IntVar(&rehydrateMaxLength, "max-length", 0, "context budget in characters (default from config)")
	rehydrateCmd.Flags().BoolVar(&rehydrateNoHistory, "no-history", false, "skip conversation history")
	rehydrateCmd.Flags().IntVar(&rehydrateHistoryLimit, "history-limit", 0, "max history messages (default from config)")
	rehydrateCmd.Flags().BoolVar(&rehydrateJSON, "json", false, "output raw JSON")
}

func runRehydrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sessionID := args[0]

	opts := rehydrate.DefaultOptions()
	opts.MaxContextLength = cfg.MaxContextLength
	opts.HistoryLimit = cfg.HistoryLimit
	if rehydrateUser != "" {
		opts.UserID = &rehydrateUser
	}
	if rehydrateMaxLength > 0 {
		opts.MaxContextLength = rehydrateMaxLength
	}
	if rehydrateNoHistory {
		opts.IncludeHistory = false
	}
	if rehydrateHistoryLimit > 0 {
		opts.HistoryLimit = rehydrateHistoryLimit
	}

	bundle, err := newEngine().Rehydrate(ctx, sessionID, opts)
	if err != nil {
		return fmt.Errorf("rehydrate: %w", err)
	}

	if rehydrateJSON {
		jsonBytes, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	printTitle("Session " + bundle.SessionID)
	printScore("Continuity", bundle.ContinuityScore)
	printScore("Quality", bundle.RehydrationQualityScore)
	printKV("Context entries", fmt.Sprintf("%d", bundle.ContextCount))
	if bundle.CacheHit {
		printHint("served from cache")
	}

	if bundle.RehydratedContext != "" {
		fmt.Println()
		printTitle("Context")
		fmt.Println(bundle.RehydratedContext)
	}

	if bundle.ConversationHistory != "" {
		fmt.Println()
		printTitle("History")
		fmt.Println(bundle.ConversationHistory)
	}

	if bundle.ContextCount == 0 && bundle.ConversationHistory == "" {
		printHint("no stored context for this session")
	}

	return nil
}
