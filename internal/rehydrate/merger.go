package rehydrate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// Merge strategies.
const (
	StrategyRelevance  = "relevance"
	StrategySimilarity = "similarity"
)

// Merger defaults.
const (
	DefaultMergeThreshold      = 0.7
	DefaultSimilarityThreshold = 0.8
	DefaultMaxGroups           = 10

	mergeSeparator = "\n\n"
)

// MergeOptions configures a merge pass.
type MergeOptions struct {
	Strategy            string
	MaxLength           int
	RelevanceThreshold  float64
	SimilarityThreshold float64
	MaxGroups           int
}

// Merger combines a session's context entries into one bounded string.
type Merger struct {
	store  Store
	logger *slog.Logger
}

// NewMerger creates a merger backed by the given store.
func NewMerger(store Store, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{store: store, logger: logger}
}

// Merge selects candidates at or above RelevanceThreshold and packs them
// under MaxLength using the requested strategy. The merged content never
// exceeds MaxLength, separators included.
func (m *Merger) Merge(ctx context.Context, sessionID string, opts MergeOptions) (*models.MergeResult, error) {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyRelevance
	}
	if strategy != StrategyRelevance && strategy != StrategySimilarity {
		return nil, fmt.Errorf("unknown merge strategy %q", strategy)
	}

	candidates, err := m.store.ActiveContextEntries(ctx, sessionID, opts.RelevanceThreshold)
	if err != nil {
		return nil, fmt.Errorf("merge candidates for %q: %w", sessionID, err)
	}

	if len(candidates) == 0 {
		return &models.MergeResult{
			MergedContent: "",
			TypesUsed:     []string{},
			Strategy:      strategy,
		}, nil
	}

	if strategy == StrategySimilarity {
		return m.mergeBySimilarity(sessionID, candidates, opts), nil
	}
	return m.mergeByRelevance(candidates, opts), nil
}

// mergeByRelevance greedily appends candidates in relevance order, stopping
// at the first entry that would overflow the budget. No backtracking or
// repacking is attempted; that simplification is intentional.
func (m *Merger) mergeByRelevance(candidates []models.ContextEntry, opts MergeOptions) *models.MergeResult {
	var merged string
	var relevanceSum float64
	types := map[string]bool{}
	count := 0

	for _, c := range candidates {
		addition := c.ContextValue
		if count > 0 {
			addition = mergeSeparator + c.ContextValue
		}
		if len(merged)+len(addition) > opts.MaxLength {
			break
		}
		merged += addition
		relevanceSum += c.RelevanceScore
		types[c.ContextType] = true
		count++
	}

	avg := 0.0
	if count > 0 {
		avg = relevanceSum / float64(count)
	}
	return finishMerge(merged, count, avg, types, StrategyRelevance)
}

// contextGroup is one similarity cluster. The representative is the text of
// the first (highest-relevance) member.
type contextGroup struct {
	representative string
	relevanceSum   float64
	members        int
	types          map[string]bool
}

func (g *contextGroup) avgRelevance() float64 {
	return g.relevanceSum / float64(g.members)
}

// mergeBySimilarity clusters candidates with single-pass incremental
// grouping, then greedily packs one representative per group. The pass is
// order-dependent and not globally optimal: each candidate joins the first
// group whose representative is similar enough, and once MaxGroups groups
// exist further unmatched (low-relevance) candidates are dropped. Downstream
// behavior depends on this exact approximation; do not replace it with
// exhaustive clustering.
func (m *Merger) mergeBySimilarity(sessionID string, candidates []models.ContextEntry, opts MergeOptions) *models.MergeResult {
	simThreshold := opts.SimilarityThreshold
	if simThreshold <= 0 {
		simThreshold = DefaultSimilarityThreshold
	}
	maxGroups := opts.MaxGroups
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}

	var groups []*contextGroup
	dropped := 0

	for _, c := range candidates {
		var joined bool
		for _, g := range groups {
			if TokenSimilarity(c.ContextValue, g.representative) >= simThreshold {
				g.relevanceSum += c.RelevanceScore
				g.members++
				g.types[c.ContextType] = true
				joined = true
				break
			}
		}
		if joined {
			continue
		}
		if len(groups) >= maxGroups {
			dropped++
			continue
		}
		groups = append(groups, &contextGroup{
			representative: c.ContextValue,
			relevanceSum:   c.RelevanceScore,
			members:        1,
			types:          map[string]bool{c.ContextType: true},
		})
	}

	if dropped > 0 {
		m.logger.Debug("similarity merge dropped overflow candidates",
			"session_id", sessionID, "dropped", dropped, "max_groups", maxGroups)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].avgRelevance() > groups[j].avgRelevance()
	})

	var merged string
	var relevanceSum float64
	types := map[string]bool{}
	sources := 0
	packed := 0

	for _, g := range groups {
		addition := g.representative
		if packed > 0 {
			addition = mergeSeparator + g.representative
		}
		if len(merged)+len(addition) > opts.MaxLength {
			break
		}
		merged += addition
		relevanceSum += g.avgRelevance()
		for t := range g.types {
			types[t] = true
		}
		sources += g.members
		packed++
	}

	// avg_relevance averages the packed groups' running averages, which is
	// how the clustering accounts for merged members.
	avg := 0.0
	if packed > 0 {
		avg = relevanceSum / float64(packed)
	}
	return finishMerge(merged, sources, avg, types, StrategySimilarity)
}

func finishMerge(merged string, sourceCount int, avgRelevance float64, types map[string]bool, strategy string) *models.MergeResult {
	typesUsed := make([]string, 0, len(types))
	for t := range types {
		typesUsed = append(typesUsed, t)
	}
	sort.Strings(typesUsed)

	if sourceCount == 0 {
		return &models.MergeResult{
			MergedContent: "",
			TypesUsed:     []string{},
			Strategy:      strategy,
		}
	}

	quality := avgRelevance * (1 + 0.1*float64(len(typesUsed)))

	return &models.MergeResult{
		MergedContent: merged,
		SourceCount:   sourceCount,
		AvgRelevance:  avgRelevance,
		QualityScore:  quality,
		TypesUsed:     typesUsed,
		Strategy:      strategy,
	}
}
