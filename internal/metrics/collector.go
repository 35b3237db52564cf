// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated timing for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Snapshot represents the full engine statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	CacheHits     int64
	CacheMisses   int64
	CacheHitRatio float64
	TotalOps      int64
	Rehydrate     *OperationSnapshot
	Merge         *OperationSnapshot
	Prioritize    *OperationSnapshot
	Continuity    *OperationSnapshot
	CacheSweep    *OperationSnapshot
}

// Operation names for the collector.
const (
	OpRehydrate  = "rehydrate"
	OpMerge      = "merge"
	OpPrioritize = "prioritize"
	OpContinuity = "continuity"
	OpCacheSweep = "cache_sweep"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu          sync.RWMutex
	startTime   time.Time
	ops         map[string]*OperationMetrics
	cacheHits   int64
	cacheMisses int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{
			MinTime: time.Duration(math.MaxInt64),
		}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordCacheHit counts a rehydration cache hit.
func (c *Collector) RecordCacheHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheHits++
}

// RecordCacheMiss counts a rehydration cache miss.
func (c *Collector) RecordCacheMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheMisses++
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var totalOps int64
	for _, m := range c.ops {
		totalOps += m.Count
	}

	ratio := 0.0
	if lookups := c.cacheHits + c.cacheMisses; lookups > 0 {
		ratio = float64(c.cacheHits) / float64(lookups)
	}

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		CacheHits:     c.cacheHits,
		CacheMisses:   c.cacheMisses,
		CacheHitRatio: ratio,
		TotalOps:      totalOps,
		Rehydrate:     snapshotOp(c.ops[OpRehydrate]),
		Merge:         snapshotOp(c.ops[OpMerge]),
		Prioritize:    snapshotOp(c.ops[OpPrioritize]),
		Continuity:    snapshotOp(c.ops[OpContinuity]),
		CacheSweep:    snapshotOp(c.ops[OpCacheSweep]),
	}
}
