package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/rehydrate"
)

var (
	mergeStrategy     string
	mergeMaxLength    int
	mergeThreshold    float64
	mergeSimThreshold float64
	mergeJSON         bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <session-id>",
	Short: "Merge a session's context entries into one bounded string",
	Long: `Merge a session's context entries under a length budget.

Strategies:
  relevance   greedy pack in relevance order (default)
  similarity  cluster near-duplicate entries first, then pack one
              representative per cluster

Examples:
  rehydra merge sess-42
  rehydra merge sess-42 --strategy similarity --max-length 4000`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeStrategy, "strategy", "s", rehydrate.StrategyRelevance, "merge strategy (relevance, similarity)")
	mergeCmd.Flags().IntVar(&mergeMaxLength, "max-length", 0, "merged content budget in characters (default from config)")
	mergeCmd.Flags().Float64Var(&mergeThreshold, "threshold", rehydrate.DefaultMergeThreshold, "minimum relevance for candidates")
	mergeCmd.Flags().Float64Var(&mergeSimThreshold, "similarity-threshold", rehydrate.DefaultSimilarityThreshold, "token similarity cutoff for clustering")
	mergeCmd.Flags().BoolVar(&mergeJSON, "json", false, "output raw JSON")
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sessionID := args[0]

	opts := rehydrate.MergeOptions{
		Strategy:            mergeStrategy,
		MaxLength:           cfg.MaxContextLength,
		RelevanceThreshold:  mergeThreshold,
		SimilarityThreshold: mergeSimThreshold,
	}
	if mergeMaxLength > 0 {
		opts.MaxLength = mergeMaxLength
	}

	merger := rehydrate.NewMerger(dbClient, logger)
	start := time.Now()
	result, err := merger.Merge(ctx, sessionID, opts)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	collector.RecordTiming(metrics.OpMerge, time.Since(start))

	if mergeJSON {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	printTitle("Merged context for " + sessionID)
	printKV("Strategy", result.Strategy)
	printKV("Sources", fmt.Sprintf("%d", result.SourceCount))
	printKV("Types", strings.Join(result.TypesUsed, ", "))
	printScore("Avg relevance", result.AvgRelevance)
	printScore("Quality", result.QualityScore)

	if result.MergedContent != "" {
		fmt.Println()
		fmt.Println(result.MergedContent)
	} else {
		printHint("nothing to merge")
	}

	return nil
}
