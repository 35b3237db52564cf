package rehydrate

import (
	"context"
	"testing"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(f *fakeStore) *ContinuityDetector {
	d := NewContinuityDetector(f, testLogger())
	d.now = func() time.Time { return f.now }
	return d
}

func TestDetectEmptySession(t *testing.T) {
	f := newFakeStore()
	d := newTestDetector(f)

	result, err := d.Detect(context.Background(), "ghost", DefaultContinuityWindowHours)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.ContinuityScore)
	assert.False(t, result.IsContinuous)
	assert.Nil(t, result.LastActivity)
	assert.Equal(t, 0, result.MessageCount)
}

func TestDetectRecentActivity(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextConversation, "k1", "v1", 0.9, 6*time.Hour)
	f.addContext("s1", models.ContextConversation, "k2", "v2", 0.8, 7*time.Hour)
	f.addContext("s1", models.ContextProject, "k3", "v3", 0.7, 8*time.Hour)
	d := newTestDetector(f)

	result, err := d.Detect(context.Background(), "s1", 24)
	require.NoError(t, err)

	// base (1 - 6/24) = 0.75, boosted by 1 + 3/100.
	assert.InDelta(t, 0.75*1.03, result.ContinuityScore, 1e-9)
	assert.True(t, result.IsContinuous)
	assert.Equal(t, 3, result.MessageCount)
	require.NotNil(t, result.LastActivity)
	assert.Equal(t, f.now.Add(-6*time.Hour), *result.LastActivity)
}

func TestDetectOutsideWindow(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextConversation, "k1", "v1", 0.9, 48*time.Hour)
	d := newTestDetector(f)

	result, err := d.Detect(context.Background(), "s1", 24)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.ContinuityScore)
	assert.False(t, result.IsContinuous)
	assert.Equal(t, 1, result.MessageCount)
}

func TestDetectZeroWindow(t *testing.T) {
	f := newFakeStore()
	f.addContext("s1", models.ContextConversation, "k1", "v1", 0.9, time.Hour)
	d := newTestDetector(f)

	result, err := d.Detect(context.Background(), "s1", 0)
	require.NoError(t, err)
	assert.False(t, result.IsContinuous)
	assert.Equal(t, 0.0, result.ContinuityScore)
}

func TestDetectBoostCanExceedOne(t *testing.T) {
	f := newFakeStore()
	for i := 0; i < 40; i++ {
		f.addContext("s1", models.ContextConversation, string(rune('a'+i)), "v", 0.9, 0)
	}
	d := newTestDetector(f)

	result, err := d.Detect(context.Background(), "s1", 24)
	require.NoError(t, err)

	// 40 fresh entries: 1.0 * 1.4. The boost is not clamped.
	assert.InDelta(t, 1.4, result.ContinuityScore, 1e-9)
	assert.True(t, result.IsContinuous)
}

func TestDetectStoreFailure(t *testing.T) {
	f := newFakeStore()
	f.failReads = assert.AnError
	d := newTestDetector(f)

	_, err := d.Detect(context.Background(), "s1", 24)
	assert.Error(t, err)
}
