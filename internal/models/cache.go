package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// CacheEntry is a stored rehydration bundle keyed by session and query
// fingerprint. Entries expire by TTL and are removed by the periodic sweep;
// the cache is non-authoritative so writes are last-write-wins.
type CacheEntry struct {
	ID              surrealmodels.RecordID `json:"id"`
	CacheKey        string                 `json:"cache_key"`
	SessionID       string                 `json:"session_id"`
	Payload         map[string]any         `json:"payload"`
	ContinuityScore float64                `json:"continuity_score"`
	QualityScore    float64                `json:"quality_score"`
	CreatedAt       time.Time              `json:"created_at"`
	ExpiresAt       time.Time              `json:"expires_at"`
	HitCount        int                    `json:"hit_count"`
}
