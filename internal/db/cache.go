package db

import (
	"context"
	"fmt"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// GetCacheEntry returns an unexpired cache entry by key, or nil on a miss.
// The hit counter is bumped best-effort; a failed bump never fails the read.
func (c *Client) GetCacheEntry(ctx context.Context, key string) (*models.CacheEntry, error) {
	results, err := surrealdb.Query[[]models.CacheEntry](ctx, c.db, `
		SELECT * FROM type::record("rehydration_cache", $key)
		WHERE expires_at > time::now()
	`, map[string]any{"key": key})

	if err != nil {
		return nil, fmt.Errorf("get cache entry: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	entry := (*results)[0].Result[0]

	if _, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("rehydration_cache", $key) SET hit_count += 1
	`, map[string]any{"key": key}); err != nil {
		c.logger.Warn("failed to bump cache hit count", "key", key, "error", err)
	}

	return &entry, nil
}

// PutCacheEntry stores a cache entry, overwriting any previous entry with the
// same key. Last-write-wins is acceptable because the cache is
// non-authoritative.
func (c *Client) PutCacheEntry(ctx context.Context, key, sessionID string, payload map[string]any, continuityScore, qualityScore float64, ttl time.Duration) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("rehydration_cache", $key) SET
			cache_key = $key,
			session_id = $sid,
			payload = $payload,
			continuity_score = $continuity,
			quality_score = $quality,
			created_at = time::now(),
			expires_at = time::now() + duration::from::secs($ttl_secs),
			hit_count = 0
	`, map[string]any{
		"key":        key,
		"sid":        sessionID,
		"payload":    payload,
		"continuity": continuityScore,
		"quality":    qualityScore,
		"ttl_secs":   int(ttl.Seconds()),
	})
	if err != nil {
		return fmt.Errorf("put cache entry: %w", wrapQueryError(err))
	}
	return nil
}

// SweepExpiredCache removes cache entries strictly past their expiry.
// Safe to run concurrently with readers. Returns the number removed.
func (c *Client) SweepExpiredCache(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]models.CacheEntry](ctx, c.db, `
		DELETE rehydration_cache WHERE expires_at <= time::now() RETURN BEFORE
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("sweep expired cache: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return 0, nil
	}
	return len((*results)[0].Result), nil
}

// CountCache returns the number of cache rows.
func (c *Client) CountCache(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `
		SELECT count() AS count FROM rehydration_cache GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}

// TrimCache removes the oldest, lowest-quality entries beyond maxSize.
// Returns the number removed.
func (c *Client) TrimCache(ctx context.Context, maxSize int) (int, error) {
	count, err := c.CountCache(ctx)
	if err != nil {
		return 0, err
	}
	excess := count - maxSize
	if excess <= 0 {
		return 0, nil
	}

	ids, err := surrealdb.Query[[]surrealmodels.RecordID](ctx, c.db, `
		SELECT VALUE id FROM rehydration_cache
		ORDER BY quality_score ASC, created_at ASC
		LIMIT $limit
	`, map[string]any{"limit": excess})
	if err != nil {
		return 0, fmt.Errorf("trim cache select: %w", err)
	}
	if ids == nil || len(*ids) == 0 || len((*ids)[0].Result) == 0 {
		return 0, nil
	}

	victims := (*ids)[0].Result
	if _, err := surrealdb.Query[any](ctx, c.db, `
		DELETE rehydration_cache WHERE id IN $ids
	`, map[string]any{"ids": victims}); err != nil {
		return 0, fmt.Errorf("trim cache delete: %w", err)
	}

	return len(victims), nil
}
