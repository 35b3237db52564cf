package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions by last activity",
	Long: `List stored sessions, most recently active first.

Examples:
  rehydra sessions
  rehydra sessions --limit 10`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 50, "max results")
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sessions, err := dbClient.ListSessions(ctx, sessionsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	printTitle(fmt.Sprintf("Sessions (%d)", len(sessions)))
	for _, s := range sessions {
		userPart := ""
		if s.UserID != nil {
			userPart = " user=" + *s.UserID
		}
		fmt.Printf("- %s [%s]%s messages=%d last=%s\n",
			s.SessionID, s.Status, userPart, s.MessageCount,
			s.LastActivity.Format("2006-01-02 15:04"))
		if verbose && s.ContextSummary != nil && *s.ContextSummary != "" {
			fmt.Printf("  %s\n", *s.ContextSummary)
		}
	}

	return nil
}
