package rehydrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/rehydra-go/internal/models"
)

// DefaultContinuityWindowHours is the activity window used when the caller
// does not supply one.
const DefaultContinuityWindowHours = 24.0

// ContinuityDetector scores how recently and actively a session has been
// used, based on its context rows.
type ContinuityDetector struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewContinuityDetector creates a detector backed by the given store.
func NewContinuityDetector(store Store, logger *slog.Logger) *ContinuityDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContinuityDetector{store: store, logger: logger, now: time.Now}
}

// Detect computes the continuity score for a session over the given activity
// window. A session with no context rows scores 0 and is not continuous.
// windowHours <= 0 means "never continuous" (guards the division below).
//
// Within the window the base score 1 - hours_since/window is boosted by
// 1 + entry_count/100. The boost is deliberately unclamped; very active
// sessions can exceed 1 before downstream weighting.
func (d *ContinuityDetector) Detect(ctx context.Context, sessionID string, windowHours float64) (*models.ContinuityResult, error) {
	lastActivity, count, err := d.store.ContextActivity(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("context activity for %q: %w", sessionID, err)
	}

	result := &models.ContinuityResult{
		LastActivity: lastActivity,
		MessageCount: count,
	}

	if lastActivity == nil || count == 0 || windowHours <= 0 {
		return result, nil
	}

	hoursSince := d.now().Sub(*lastActivity).Hours()
	if hoursSince > windowHours {
		d.logger.Debug("session outside continuity window",
			"session_id", sessionID, "hours_since", hoursSince)
		return result, nil
	}
	if hoursSince < 0 {
		hoursSince = 0
	}

	score := 1 - hoursSince/windowHours
	score *= 1 + float64(count)/100

	result.ContinuityScore = score
	result.IsContinuous = true
	return result, nil
}
