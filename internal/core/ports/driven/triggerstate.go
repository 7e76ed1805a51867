package driven

import (
	"context"
	"time"
)

// TriggerStateStore persists per-trigger bookkeeping for crash recovery.
// The background trigger stores its last attempt time here so its
// self-throttle survives process restarts.
type TriggerStateStore interface {
	// LastAttempt returns when the named trigger last fired.
	// Returns the zero time and no error if it never fired.
	LastAttempt(ctx context.Context, triggerID string) (time.Time, error)

	// SetLastAttempt records when the named trigger fired.
	SetLastAttempt(ctx context.Context, triggerID string, at time.Time) error
}
