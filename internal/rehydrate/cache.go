package rehydrate

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// Cache defaults.
const (
	DefaultCacheTTL     = time.Hour
	DefaultMaxCacheSize = 1000
)

// CacheManager fronts the rehydration cache table. Every failure in here is
// logged and swallowed: the cache is an optimization layer and must never
// surface errors to the rehydration path.
type CacheManager struct {
	store   CacheStore
	ttl     time.Duration
	maxSize int
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewCacheManager creates a cache manager. A zero ttl or maxSize falls back
// to the defaults.
func NewCacheManager(store CacheStore, ttl time.Duration, maxSize int, collector *metrics.Collector, logger *slog.Logger) *CacheManager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheManager{store: store, ttl: ttl, maxSize: maxSize, metrics: collector, logger: logger}
}

// Fingerprint derives the cache key for one rehydration request shape.
// FNV-64a over the request parameters, prefixed with the session id so keys
// stay session-scoped and debuggable.
func (m *CacheManager) Fingerprint(sessionID string, userID *string, maxContextLength int, includeHistory bool, historyLimit int) string {
	h := fnv.New64a()
	user := ""
	if userID != nil {
		user = *userID
	}
	fmt.Fprintf(h, "%s|%s|%d|%t|%d", sessionID, user, maxContextLength, includeHistory, historyLimit)
	return fmt.Sprintf("%s:%016x", sessionID, h.Sum64())
}

// Get returns the cached bundle for a key, or nil on a miss. Read failures
// count as misses.
func (m *CacheManager) Get(ctx context.Context, key string) *models.Bundle {
	entry, err := m.store.GetCacheEntry(ctx, key)
	if err != nil {
		m.logger.Warn("cache read failed, falling back to recompute", "key", key, "error", err)
		entry = nil
	}

	if entry == nil {
		if m.metrics != nil {
			m.metrics.RecordCacheMiss()
		}
		return nil
	}

	if m.metrics != nil {
		m.metrics.RecordCacheHit()
	}

	bundle := bundleFromPayload(entry.Payload)
	bundle.CacheHit = true
	return bundle
}

// Put stores a computed bundle under the given key. Write failures are
// logged only.
func (m *CacheManager) Put(ctx context.Context, key string, bundle *models.Bundle) {
	err := m.store.PutCacheEntry(ctx, key, bundle.SessionID, bundleToPayload(bundle),
		bundle.ContinuityScore, bundle.RehydrationQualityScore, m.ttl)
	if err != nil {
		m.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Sweep removes expired entries and trims the cache back to capacity.
// Idempotent; safe to run concurrently with readers.
func (m *CacheManager) Sweep(ctx context.Context) (int, error) {
	start := time.Now()

	removed, err := m.store.SweepExpiredCache(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep expired: %w", err)
	}

	trimmed, err := m.store.TrimCache(ctx, m.maxSize)
	if err != nil {
		return removed, fmt.Errorf("trim cache: %w", err)
	}

	if m.metrics != nil {
		m.metrics.RecordTiming(metrics.OpCacheSweep, time.Since(start))
	}

	total := removed + trimmed
	if total > 0 {
		m.logger.Info("cache sweep complete", "expired", removed, "trimmed", trimmed)
	}
	return total, nil
}

// RunSweeper runs the periodic expiry sweep until the context is cancelled.
// Sweep failures are logged and retried on the next tick; they never block
// foreground requests.
func (m *CacheManager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info("cache sweeper started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("cache sweeper stopped")
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				m.logger.Warn("cache sweep failed, will retry next run", "error", err)
			}
		}
	}
}

// bundleToPayload flattens a bundle for FLEXIBLE object storage.
func bundleToPayload(b *models.Bundle) map[string]any {
	prefs := map[string]any{}
	for k, v := range b.UserPreferences {
		prefs[k] = v
	}

	payload := map[string]any{
		"session_id":                b.SessionID,
		"rehydrated_context":        b.RehydratedContext,
		"conversation_history":      b.ConversationHistory,
		"user_preferences":          prefs,
		"continuity_score":          b.ContinuityScore,
		"context_count":             b.ContextCount,
		"rehydration_quality_score": b.RehydrationQualityScore,
	}
	if b.UserID != nil {
		payload["user_id"] = *b.UserID
	}
	return payload
}

// bundleFromPayload rebuilds a bundle from a stored payload. The CBOR codec
// may hand back differing numeric widths, so decoding is tolerant.
func bundleFromPayload(p map[string]any) *models.Bundle {
	b := &models.Bundle{
		SessionID:               asString(p["session_id"]),
		RehydratedContext:       asString(p["rehydrated_context"]),
		ConversationHistory:     asString(p["conversation_history"]),
		UserPreferences:         map[string]string{},
		ContinuityScore:         asFloat(p["continuity_score"]),
		ContextCount:            asInt(p["context_count"]),
		RehydrationQualityScore: asFloat(p["rehydration_quality_score"]),
	}

	if uid, ok := p["user_id"].(string); ok && uid != "" {
		b.UserID = &uid
	}
	if prefs, ok := p["user_preferences"].(map[string]any); ok {
		for k, v := range prefs {
			b.UserPreferences[k] = asString(v)
		}
	}
	return b
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
