package rehydrate

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/models"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory Store/CacheStore/StatsStore for engine tests.
type fakeStore struct {
	now time.Time

	sessions  map[string]*models.Session
	messages  map[string][]models.Message
	contexts  map[string][]models.ContextEntry
	cache     map[string]*models.CacheEntry
	agg       *models.StoreAggregates
	failReads error

	putCalls   int
	sweepCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		sessions: map[string]*models.Session{},
		messages: map[string][]models.Message{},
		contexts: map[string][]models.ContextEntry{},
		cache:    map[string]*models.CacheEntry{},
		agg:      &models.StoreAggregates{},
	}
}

// addContext registers a context entry with the given relevance and age.
func (f *fakeStore) addContext(sessionID, ctype, key, value string, relevance float64, age time.Duration) models.ContextEntry {
	entry := models.ContextEntry{
		ID:             surrealmodels.RecordID{Table: "context_entry", ID: key},
		SessionID:      sessionID,
		ContextType:    ctype,
		ContextKey:     key,
		ContextValue:   value,
		RelevanceScore: relevance,
		CreatedAt:      f.now.Add(-age),
	}
	f.contexts[sessionID] = append(f.contexts[sessionID], entry)
	return entry
}

func (f *fakeStore) addUserContext(sessionID, userID, key, value string, relevance float64) {
	entry := models.ContextEntry{
		ID:             surrealmodels.RecordID{Table: "context_entry", ID: key},
		SessionID:      sessionID,
		ContextType:    models.ContextPreference,
		ContextKey:     key,
		ContextValue:   value,
		RelevanceScore: relevance,
		UserID:         &userID,
		CreatedAt:      f.now,
	}
	f.contexts[sessionID] = append(f.contexts[sessionID], entry)
}

func (f *fakeStore) addMessage(sessionID, role, content string, index int) {
	f.messages[sessionID] = append(f.messages[sessionID], models.Message{
		ID:           surrealmodels.RecordID{Table: "message", ID: content},
		SessionID:    sessionID,
		Role:         role,
		Content:      content,
		MessageIndex: index,
		Timestamp:    f.now,
	})
}

func (f *fakeStore) live(e models.ContextEntry) bool {
	return e.ExpiresAt == nil || e.ExpiresAt.After(f.now)
}

func (f *fakeStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	return f.sessions[sessionID], nil
}

func (f *fakeStore) RecentMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	msgs := append([]models.Message(nil), f.messages[sessionID]...)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].MessageIndex > msgs[j].MessageIndex })
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakeStore) ActiveContextEntries(ctx context.Context, sessionID string, minRelevance float64) ([]models.ContextEntry, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	var out []models.ContextEntry
	for _, e := range f.contexts[sessionID] {
		if e.RelevanceScore >= minRelevance && f.live(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RelevanceScore != out[j].RelevanceScore {
			return out[i].RelevanceScore > out[j].RelevanceScore
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) ContextActivity(ctx context.Context, sessionID string) (*time.Time, int, error) {
	if f.failReads != nil {
		return nil, 0, f.failReads
	}
	entries := f.contexts[sessionID]
	if len(entries) == 0 {
		return nil, 0, nil
	}
	last := entries[0].CreatedAt
	for _, e := range entries[1:] {
		if e.CreatedAt.After(last) {
			last = e.CreatedAt
		}
	}
	return &last, len(entries), nil
}

func (f *fakeStore) ContextAggregates(ctx context.Context, sessionID string) (int, float64, error) {
	if f.failReads != nil {
		return 0, 0, f.failReads
	}
	count := 0
	sum := 0.0
	for _, e := range f.contexts[sessionID] {
		if f.live(e) {
			count++
			sum += e.RelevanceScore
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, sum / float64(count), nil
}

func (f *fakeStore) CountUserContext(ctx context.Context, sessionID, userID string) (int, error) {
	if f.failReads != nil {
		return 0, f.failReads
	}
	count := 0
	for _, e := range f.contexts[sessionID] {
		if f.live(e) && e.UserID != nil && *e.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) GetCacheEntry(ctx context.Context, key string) (*models.CacheEntry, error) {
	entry, ok := f.cache[key]
	if !ok || !entry.ExpiresAt.After(f.now) {
		return nil, nil
	}
	entry.HitCount++
	return entry, nil
}

func (f *fakeStore) PutCacheEntry(ctx context.Context, key, sessionID string, payload map[string]any, continuityScore, qualityScore float64, ttl time.Duration) error {
	f.putCalls++
	f.cache[key] = &models.CacheEntry{
		CacheKey:        key,
		SessionID:       sessionID,
		Payload:         payload,
		ContinuityScore: continuityScore,
		QualityScore:    qualityScore,
		CreatedAt:       f.now,
		ExpiresAt:       f.now.Add(ttl),
	}
	return nil
}

func (f *fakeStore) SweepExpiredCache(ctx context.Context) (int, error) {
	f.sweepCalls++
	removed := 0
	for key, entry := range f.cache {
		if !entry.ExpiresAt.After(f.now) {
			delete(f.cache, key)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeStore) TrimCache(ctx context.Context, maxSize int) (int, error) {
	excess := len(f.cache) - maxSize
	if excess <= 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(f.cache))
	for k := range f.cache {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return f.cache[keys[i]].CreatedAt.Before(f.cache[keys[j]].CreatedAt)
	})
	for _, k := range keys[:excess] {
		delete(f.cache, k)
	}
	return excess, nil
}

func (f *fakeStore) QuerySessionAggregates(ctx context.Context, sessionID *string) (*models.StoreAggregates, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	return f.agg, nil
}
