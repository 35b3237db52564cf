package rehydrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// Scoring weights and the richness saturation point.
const (
	continuityWeight  = 0.4
	richnessWeight    = 0.4
	specificityWeight = 0.2

	richnessSaturation = 50.0
)

// Scorer combines continuity, context richness and user specificity into one
// rehydration quality score plus a recommended context budget.
type Scorer struct {
	store      Store
	continuity *ContinuityDetector
	logger     *slog.Logger
}

// NewScorer creates a scorer backed by the given store.
func NewScorer(store Store, continuity *ContinuityDetector, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{store: store, continuity: continuity, logger: logger}
}

// Score computes the rehydration quality for a session. A session with no
// context scores zero across the board and gets the minimum budget.
func (s *Scorer) Score(ctx context.Context, sessionID string, userID *string) (*models.RehydrationScore, error) {
	cont, err := s.continuity.Detect(ctx, sessionID, DefaultContinuityWindowHours)
	if err != nil {
		return nil, fmt.Errorf("score continuity: %w", err)
	}

	count, avgRelevance, err := s.store.ContextAggregates(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("score aggregates: %w", err)
	}

	richness := (float64(count) / richnessSaturation) * avgRelevance
	if richness > 1 {
		richness = 1
	}

	specificity := 0.0
	if count > 0 && userID != nil {
		userCount, err := s.store.CountUserContext(ctx, sessionID, *userID)
		if err != nil {
			return nil, fmt.Errorf("score user context: %w", err)
		}
		specificity = float64(userCount) / float64(count)
	}

	overall := continuityWeight*cont.ContinuityScore +
		richnessWeight*richness +
		specificityWeight*specificity

	return &models.RehydrationScore{
		ContinuityScore:         cont.ContinuityScore,
		ContextRichnessScore:    richness,
		UserSpecificityScore:    specificity,
		OverallScore:            overall,
		RecommendedContextLimit: recommendedLimit(overall),
	}, nil
}

// recommendedLimit maps the overall score onto a tiered context budget.
func recommendedLimit(overall float64) int {
	switch {
	case overall > 0.8:
		return 30
	case overall > 0.6:
		return 20
	case overall > 0.4:
		return 15
	default:
		return 10
	}
}
