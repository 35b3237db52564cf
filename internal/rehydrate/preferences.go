package rehydrate

import "context"

// PreferenceSource supplies learned user preferences for bundle assembly.
// The learning pipeline lives outside this engine.
type PreferenceSource interface {
	Preferences(ctx context.Context, userID string) (map[string]string, error)
}

// NoopPreferences is the current preference source: the learner is not
// implemented yet, so every lookup returns an empty map.
type NoopPreferences struct{}

// Preferences returns an empty preference map.
func (NoopPreferences) Preferences(ctx context.Context, userID string) (map[string]string, error) {
	return map[string]string{}, nil
}
