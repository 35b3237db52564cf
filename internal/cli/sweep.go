package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired rehydration cache entries",
	Long: `Run one cache sweep: delete expired entries and trim the cache back to
its configured capacity. The MCP server runs this periodically on its own;
the command exists for cron setups and manual housekeeping.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	removed, err := newCacheManager().Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	if removed == 0 {
		fmt.Println("Cache already clean.")
		return nil
	}
	fmt.Printf("Removed %d cache entries.\n", removed)
	return nil
}
