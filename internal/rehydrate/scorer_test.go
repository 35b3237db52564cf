package rehydrate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer(f *fakeStore) *Scorer {
	return NewScorer(f, newTestDetector(f), testLogger())
}

func TestScoreEmptySession(t *testing.T) {
	f := newFakeStore()
	s := newTestScorer(f)

	score, err := s.Score(context.Background(), "ghost", nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, score.ContinuityScore)
	assert.Equal(t, 0.0, score.ContextRichnessScore)
	assert.Equal(t, 0.0, score.UserSpecificityScore)
	assert.Equal(t, 0.0, score.OverallScore)
	assert.Equal(t, 10, score.RecommendedContextLimit)
}

func TestScoreModerateSession(t *testing.T) {
	f := newFakeStore()
	for i := 0; i < 10; i++ {
		f.addContext("s1", models.ContextConversation, fmt.Sprintf("k%d", i), "v", 0.8, 12*time.Hour)
	}
	s := newTestScorer(f)

	score, err := s.Score(context.Background(), "s1", nil)
	require.NoError(t, err)

	// continuity (1-12/24)*(1+10/100) = 0.55, richness (10/50)*0.8 = 0.16.
	assert.InDelta(t, 0.55, score.ContinuityScore, 1e-9)
	assert.InDelta(t, 0.16, score.ContextRichnessScore, 1e-9)
	assert.InDelta(t, 0.4*0.55+0.4*0.16, score.OverallScore, 1e-9)
	assert.Equal(t, 10, score.RecommendedContextLimit)
}

func TestScoreRichnessClampedAtOne(t *testing.T) {
	f := newFakeStore()
	for i := 0; i < 60; i++ {
		f.addContext("s1", models.ContextConversation, fmt.Sprintf("k%d", i), "v", 1.0, 0)
	}
	s := newTestScorer(f)

	score, err := s.Score(context.Background(), "s1", nil)
	require.NoError(t, err)

	// (60/50)*1.0 would be 1.2; richness saturates at 1.
	assert.Equal(t, 1.0, score.ContextRichnessScore)
	assert.InDelta(t, 1.6, score.ContinuityScore, 1e-9)
	assert.Equal(t, 30, score.RecommendedContextLimit)
}

func TestScoreUserSpecificity(t *testing.T) {
	f := newFakeStore()
	userID := "u1"
	f.addContext("s1", models.ContextConversation, "k1", "v", 0.8, 0)
	f.addContext("s1", models.ContextConversation, "k2", "v", 0.8, 0)
	f.addUserContext("s1", userID, "k3", "v", 0.8)
	f.addUserContext("s1", userID, "k4", "v", 0.8)
	s := newTestScorer(f)

	score, err := s.Score(context.Background(), "s1", &userID)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, score.UserSpecificityScore, 1e-9)

	continuity := 1.0 * (1 + 4.0/100)
	richness := (4.0 / 50) * 0.8
	assert.InDelta(t, 0.4*continuity+0.4*richness+0.2*0.5, score.OverallScore, 1e-9)
}

func TestScoreNoUserMeansZeroSpecificity(t *testing.T) {
	f := newFakeStore()
	f.addUserContext("s1", "u1", "k", "v", 0.9)
	s := newTestScorer(f)

	score, err := s.Score(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score.UserSpecificityScore)
}

func TestRecommendedLimitTiers(t *testing.T) {
	tests := []struct {
		overall float64
		want    int
	}{
		{0.9, 30},
		{0.81, 30},
		{0.8, 20},
		{0.7, 20},
		{0.6, 15},
		{0.5, 15},
		{0.4, 10},
		{0.1, 10},
		{0, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, recommendedLimit(tt.overall), "overall=%v", tt.overall)
	}
}
