package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/rehydra-go/internal/rehydrate"
)

var (
	statsSession string
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store-wide or per-session statistics",
	Long: `Show aggregated statistics: session counts, average continuity and
rehydration quality, context density and cache hit ratio.

Examples:
  rehydra stats
  rehydra stats --session sess-42`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsSession, "session", "s", "", "scope aggregates to one session")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output raw JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var sessionID *string
	if statsSession != "" {
		sessionID = &statsSession
	}

	stats, err := rehydrate.NewStatisticsCollector(dbClient, collector, logger).Stats(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if statsJSON {
		jsonBytes, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	title := "Store statistics"
	if sessionID != nil {
		title = "Statistics for " + *sessionID
	}
	printTitle(title)
	printKV("Sessions", fmt.Sprintf("%d (%d active)", stats.TotalSessions, stats.ActiveSessions))
	printKV("Avg context/session", fmt.Sprintf("%.1f", stats.AvgContextCount))
	printScore("Avg continuity", stats.AvgContinuity)
	printScore("Avg quality", stats.AvgRehydrationQuality)
	printKV("Cache hit ratio", fmt.Sprintf("%.0f%%", stats.CacheHitRatio*100))

	return nil
}
