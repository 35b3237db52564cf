// Package rehydrate implements the conversational-memory rehydration engine:
// continuity detection, context prioritization, length-budgeted merging,
// quality scoring and cache-backed orchestration.
package rehydrate

import (
	"context"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// Store is the persistent record store consumed by the engine. The SurrealDB
// client satisfies it; tests inject fakes. The engine reads session-scoped
// rows only, so calls for different sessions never contend.
type Store interface {
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error)
	ActiveContextEntries(ctx context.Context, sessionID string, minRelevance float64) ([]models.ContextEntry, error)
	ContextActivity(ctx context.Context, sessionID string) (*time.Time, int, error)
	ContextAggregates(ctx context.Context, sessionID string) (int, float64, error)
	CountUserContext(ctx context.Context, sessionID, userID string) (int, error)
}

// CacheStore is the cache table access used by the CacheManager. Kept
// separate from Store because the cache is a strictly optional layer.
type CacheStore interface {
	GetCacheEntry(ctx context.Context, key string) (*models.CacheEntry, error)
	PutCacheEntry(ctx context.Context, key, sessionID string, payload map[string]any, continuityScore, qualityScore float64, ttl time.Duration) error
	SweepExpiredCache(ctx context.Context) (int, error)
	TrimCache(ctx context.Context, maxSize int) (int, error)
}

// StatsStore provides the read-only aggregates behind the statistics
// collector.
type StatsStore interface {
	QuerySessionAggregates(ctx context.Context, sessionID *string) (*models.StoreAggregates, error)
}
