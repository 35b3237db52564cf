package rehydrate

import (
	"context"
	"testing"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/metrics"
	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsMergesStoreAndRuntime(t *testing.T) {
	f := newFakeStore()
	f.agg = &models.StoreAggregates{
		TotalSessions:  4,
		ActiveSessions: 2,
		ContextRows:    12,
		AvgContinuity:  0.5,
		AvgQuality:     0.7,
	}

	collector := metrics.NewCollector()
	collector.RecordTiming(metrics.OpRehydrate, time.Millisecond)
	collector.RecordTiming(metrics.OpMerge, time.Millisecond)
	collector.RecordTiming(metrics.OpRehydrate, time.Millisecond)
	collector.RecordCacheHit()
	collector.RecordCacheHit()
	collector.RecordCacheHit()
	collector.RecordCacheMiss()

	s := NewStatisticsCollector(f, collector, testLogger())
	stats, err := s.Stats(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalSessions)
	assert.Equal(t, 2, stats.ActiveSessions)
	assert.InDelta(t, 3.0, stats.AvgContextCount, 1e-9)
	assert.InDelta(t, 0.5, stats.AvgContinuity, 1e-9)
	assert.InDelta(t, 0.7, stats.AvgRehydrationQuality, 1e-9)
	assert.InDelta(t, 0.75, stats.CacheHitRatio, 1e-9)
	assert.Equal(t, int64(3), stats.OperationCount)
}

func TestStatsEmptyStore(t *testing.T) {
	f := newFakeStore()
	s := NewStatisticsCollector(f, metrics.NewCollector(), testLogger())

	stats, err := s.Stats(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalSessions)
	assert.Equal(t, 0.0, stats.AvgContextCount)
	assert.Equal(t, 0.0, stats.CacheHitRatio)
}

func TestStatsWithoutCollector(t *testing.T) {
	f := newFakeStore()
	f.agg = &models.StoreAggregates{TotalSessions: 1}
	s := NewStatisticsCollector(f, nil, testLogger())

	stats, err := s.Stats(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, int64(0), stats.OperationCount)
}

func TestStatsStoreFailure(t *testing.T) {
	f := newFakeStore()
	f.failReads = assert.AnError
	s := NewStatisticsCollector(f, nil, testLogger())

	_, err := s.Stats(context.Background(), nil)
	assert.Error(t, err)
}
