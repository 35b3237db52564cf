package rehydrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// ErrInvalidInput rejects a request before any lookup happens.
var ErrInvalidInput = errors.New("session_id is required")

// Orchestrator defaults.
const (
	DefaultMaxContextLength = 10000
	DefaultHistoryLimit     = 20

	// Threshold used when assembling the rehydrated context. Looser than the
	// prioritizer default so marginal context still reaches the bundle.
	assemblyThreshold = 0.5
)

// Options configures a single rehydration call.
type Options struct {
	UserID           *string
	MaxContextLength int
	IncludeHistory   bool
	HistoryLimit     int
}

// DefaultOptions returns the standard rehydration parameters.
func DefaultOptions() Options {
	return Options{
		MaxContextLength: DefaultMaxContextLength,
		IncludeHistory:   true,
		HistoryLimit:     DefaultHistoryLimit,
	}
}

// Orchestrator is the top-level rehydration entry point. One call runs a
// single synchronous pass: cache check, scoring, prioritized selection,
// budgeted assembly, optional history fetch, cache write.
type Orchestrator struct {
	store       Store
	cache       *CacheManager
	scorer      *Scorer
	prioritizer *Prioritizer
	prefs       PreferenceSource
	metrics     *metrics.Collector
	logger      *slog.Logger
}

// NewOrchestrator wires the engine components together. prefs may be nil, in
// which case the empty-map stub is used.
func NewOrchestrator(store Store, cache *CacheManager, scorer *Scorer, prioritizer *Prioritizer, prefs PreferenceSource, collector *metrics.Collector, logger *slog.Logger) *Orchestrator {
	if prefs == nil {
		prefs = NoopPreferences{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:       store,
		cache:       cache,
		scorer:      scorer,
		prioritizer: prioritizer,
		prefs:       prefs,
		metrics:     collector,
		logger:      logger,
	}
}

// Rehydrate reconstructs the context bundle for a session. A session with no
// stored context is not an error: the result is a valid degraded bundle with
// zero scores. Only invalid input and storage failures propagate.
func (o *Orchestrator) Rehydrate(ctx context.Context, sessionID string, opts Options) (*models.Bundle, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidInput
	}

	if opts.MaxContextLength <= 0 {
		opts.MaxContextLength = DefaultMaxContextLength
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}

	start := time.Now()
	defer func() {
		if o.metrics != nil {
			o.metrics.RecordTiming(metrics.OpRehydrate, time.Since(start))
		}
	}()

	key := o.cache.Fingerprint(sessionID, opts.UserID, opts.MaxContextLength, opts.IncludeHistory, opts.HistoryLimit)
	if cached := o.cache.Get(ctx, key); cached != nil {
		o.logger.Debug("rehydration served from cache", "session_id", sessionID, "key", key)
		return cached, nil
	}

	score, err := o.scorer.Score(ctx, sessionID, opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("rehydrate %q: %w", sessionID, err)
	}

	selected, err := o.prioritizer.Select(ctx, sessionID, PrioritizeOptions{
		UserID:             opts.UserID,
		MaxContexts:        score.RecommendedContextLimit,
		RelevanceThreshold: assemblyThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("rehydrate %q: %w", sessionID, err)
	}

	rehydrated, used := assembleContext(selected, opts.MaxContextLength)

	history := ""
	if opts.IncludeHistory {
		history, err = o.formatHistory(ctx, sessionID, opts.HistoryLimit)
		if err != nil {
			return nil, fmt.Errorf("rehydrate %q: %w", sessionID, err)
		}
	}

	prefs := map[string]string{}
	if opts.UserID != nil {
		prefs, err = o.prefs.Preferences(ctx, *opts.UserID)
		if err != nil {
			// Preference lookup is best-effort; a failed learner never
			// degrades the bundle below its context content.
			o.logger.Warn("preference lookup failed", "user_id", *opts.UserID, "error", err)
			prefs = map[string]string{}
		}
	}

	bundle := &models.Bundle{
		SessionID:               sessionID,
		UserID:                  opts.UserID,
		RehydratedContext:       rehydrated,
		ConversationHistory:     history,
		UserPreferences:         prefs,
		ContinuityScore:         score.ContinuityScore,
		ContextCount:            used,
		RehydrationQualityScore: score.OverallScore * (1 + float64(used)/20),
	}

	o.cache.Put(ctx, key, bundle)

	o.logger.Info("rehydration complete",
		"session_id", sessionID,
		"context_count", used,
		"continuity", score.ContinuityScore,
		"quality", bundle.RehydrationQualityScore,
	)
	return bundle, nil
}

// assembleContext greedily packs prioritized values under the length budget,
// stopping at the first overflow. Returns the packed text and how many
// entries made it in.
func assembleContext(selected []models.PrioritizedContext, maxLength int) (string, int) {
	var sb strings.Builder
	used := 0

	for _, c := range selected {
		addition := c.ContextValue
		if used > 0 {
			addition = mergeSeparator + c.ContextValue
		}
		if sb.Len()+len(addition) > maxLength {
			break
		}
		sb.WriteString(addition)
		used++
	}

	return sb.String(), used
}

// formatHistory fetches the most recent messages and renders them as
// chronological "Human:" / "AI:" lines.
func (o *Orchestrator) formatHistory(ctx context.Context, sessionID string, limit int) (string, error) {
	msgs, err := o.store.RecentMessages(ctx, sessionID, limit)
	if err != nil {
		return "", fmt.Errorf("fetch history: %w", err)
	}

	// Store returns newest first; replay oldest to newest.
	lines := make([]string, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		lines = append(lines, formatTurn(msgs[i]))
	}
	return strings.Join(lines, "\n"), nil
}

func formatTurn(msg models.Message) string {
	switch msg.Role {
	case models.RoleHuman:
		return "Human: " + msg.Content
	case models.RoleAI:
		return "AI: " + msg.Content
	default:
		return "System: " + msg.Content
	}
}
