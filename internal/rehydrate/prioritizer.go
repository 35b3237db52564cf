package rehydrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// Prioritizer defaults.
const (
	DefaultMaxContexts        = 20
	DefaultRelevanceThreshold = 0.6

	relevanceWeight  = 0.7
	recencyWeight    = 0.3
	userSpecificGain = 1.2
)

// PrioritizeOptions configures a selection pass.
type PrioritizeOptions struct {
	UserID             *string
	MaxContexts        int
	RelevanceThreshold float64
}

// Prioritizer ranks a session's context entries by relevance and recency.
type Prioritizer struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewPrioritizer creates a prioritizer backed by the given store.
func NewPrioritizer(store Store, logger *slog.Logger) *Prioritizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prioritizer{store: store, logger: logger, now: time.Now}
}

// Select returns up to MaxContexts unexpired entries with relevance at or
// above the threshold, ordered by relevance then creation time. A threshold
// of 0 returns every live entry; nothing is silently dropped below the cap.
func (p *Prioritizer) Select(ctx context.Context, sessionID string, opts PrioritizeOptions) ([]models.PrioritizedContext, error) {
	maxContexts := opts.MaxContexts
	if maxContexts <= 0 {
		maxContexts = DefaultMaxContexts
	}

	entries, err := p.store.ActiveContextEntries(ctx, sessionID, opts.RelevanceThreshold)
	if err != nil {
		return nil, fmt.Errorf("select contexts for %q: %w", sessionID, err)
	}

	now := p.now()
	ranked := make([]models.PrioritizedContext, 0, len(entries))
	for _, e := range entries {
		ageDays := now.Sub(e.CreatedAt).Hours() / 24
		recency := 1 - ageDays
		if recency < 0 {
			recency = 0
		}

		priority := relevanceWeight*e.RelevanceScore + recencyWeight*recency
		userSpecific := e.UserID != nil && opts.UserID != nil && *e.UserID == *opts.UserID
		if userSpecific {
			priority *= userSpecificGain
		}

		ranked = append(ranked, models.PrioritizedContext{
			ID:             models.MustRecordIDString(e.ID),
			ContextType:    e.ContextType,
			ContextKey:     e.ContextKey,
			ContextValue:   e.ContextValue,
			RelevanceScore: e.RelevanceScore,
			RecencyScore:   recency,
			PriorityScore:  priority,
			IsUserSpecific: userSpecific,
			CreatedAt:      e.CreatedAt,
		})
	}

	// Store returns entries ordered by relevance DESC, created_at DESC,
	// which is the published ordering; the priority score annotates but
	// does not reorder.
	if len(ranked) > maxContexts {
		p.logger.Debug("truncating prioritized contexts",
			"session_id", sessionID, "candidates", len(ranked), "max", maxContexts)
		ranked = ranked[:maxContexts]
	}

	return ranked, nil
}
