package rehydrate

import (
	"context"
	"strings"
	"testing"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeUnknownStrategy(t *testing.T) {
	m := NewMerger(newFakeStore(), testLogger())

	_, err := m.Merge(context.Background(), "s1", MergeOptions{Strategy: "clever"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown merge strategy")
}

func TestMergeEmptySession(t *testing.T) {
	m := NewMerger(newFakeStore(), testLogger())

	result, err := m.Merge(context.Background(), "ghost", MergeOptions{MaxLength: 1000})
	require.NoError(t, err)

	assert.Equal(t, "", result.MergedContent)
	assert.Equal(t, 0, result.SourceCount)
	assert.Equal(t, 0.0, result.QualityScore)
	assert.Equal(t, []string{}, result.TypesUsed)
	assert.Equal(t, StrategyRelevance, result.Strategy)
}

func TestMergeByRelevanceRespectsBudget(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextConversation, "a", "aaaa", 0.9, 0)
	f.addContext("s1", models.ContextPreference, "b", "bbbb", 0.8, 0)
	f.addContext("s1", models.ContextProject, "c", "cccc", 0.7, 0)
	m := NewMerger(f, testLogger())

	// "aaaa" + "\n\nbbbb" fills the budget exactly; "cccc" overflows.
	result, err := m.Merge(context.Background(), "s1", MergeOptions{
		MaxLength:          10,
		RelevanceThreshold: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "aaaa\n\nbbbb", result.MergedContent)
	assert.Equal(t, 2, result.SourceCount)
	assert.InDelta(t, 0.85, result.AvgRelevance, 1e-9)
	assert.Equal(t, []string{"conversation", "preference"}, result.TypesUsed)
	assert.InDelta(t, 0.85*1.2, result.QualityScore, 1e-9)
	assert.LessOrEqual(t, len(result.MergedContent), 10)
}

func TestMergeByRelevanceStopsAtFirstOverflow(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextConversation, "a", "short", 0.9, 0)
	f.addContext("s1", models.ContextConversation, "b", strings.Repeat("x", 100), 0.8, 0)
	f.addContext("s1", models.ContextConversation, "c", "tiny", 0.7, 0)
	m := NewMerger(f, testLogger())

	result, err := m.Merge(context.Background(), "s1", MergeOptions{MaxLength: 20})
	require.NoError(t, err)

	// Greedy: the oversized second entry ends the pass, even though the
	// third would have fit.
	assert.Equal(t, "short", result.MergedContent)
	assert.Equal(t, 1, result.SourceCount)
}

func TestMergeBySimilarityClustersDuplicates(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextPreference, "a", "user prefers dark mode", 0.9, 0)
	f.addContext("s1", models.ContextConversation, "b", "user prefers dark mode", 0.8, 0)
	f.addContext("s1", models.ContextProject, "c", "project uses a golang backend", 0.7, 0)
	m := NewMerger(f, testLogger())

	result, err := m.Merge(context.Background(), "s1", MergeOptions{
		Strategy:  StrategySimilarity,
		MaxLength: 1000,
	})
	require.NoError(t, err)

	// The two identical values collapse into one group; three sources, two
	// representatives in the output.
	assert.Equal(t, "user prefers dark mode\n\nproject uses a golang backend", result.MergedContent)
	assert.Equal(t, 3, result.SourceCount)
	assert.InDelta(t, (0.85+0.7)/2, result.AvgRelevance, 1e-9)
	assert.Equal(t, []string{"conversation", "preference", "project"}, result.TypesUsed)
	assert.Equal(t, StrategySimilarity, result.Strategy)
}

func TestMergeBySimilarityMaxGroupsDropsOverflow(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextConversation, "a", "alpha topic", 0.9, 0)
	f.addContext("s1", models.ContextConversation, "b", "beta subject", 0.8, 0)
	f.addContext("s1", models.ContextConversation, "c", "gamma matter", 0.7, 0)
	m := NewMerger(f, testLogger())

	result, err := m.Merge(context.Background(), "s1", MergeOptions{
		Strategy:  StrategySimilarity,
		MaxLength: 1000,
		MaxGroups: 2,
	})
	require.NoError(t, err)

	// The third, lowest-relevance candidate finds no group and is dropped.
	assert.Equal(t, 2, result.SourceCount)
	assert.Equal(t, "alpha topic\n\nbeta subject", result.MergedContent)
}

func TestMergeBySimilarityRespectsBudget(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextConversation, "a", strings.Repeat("a ", 30), 0.9, 0)
	f.addContext("s1", models.ContextConversation, "b", strings.Repeat("b ", 30), 0.8, 0)
	m := NewMerger(f, testLogger())

	result, err := m.Merge(context.Background(), "s1", MergeOptions{
		Strategy:  StrategySimilarity,
		MaxLength: 70,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.MergedContent), 70)
	assert.Equal(t, 1, result.SourceCount)
}

func TestMergeDefaultsToRelevanceStrategy(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextConversation, "a", "hello", 0.9, 0)
	m := NewMerger(f, testLogger())

	result, err := m.Merge(context.Background(), "s1", MergeOptions{MaxLength: 100})
	require.NoError(t, err)
	assert.Equal(t, StrategyRelevance, result.Strategy)
	assert.Equal(t, "hello", result.MergedContent)
}
