package services

import (
	"context"
	"sync"
	"time"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
	"github.com/openhymnal/hymnal-cli/internal/logger"
)

// backgroundTriggerID keys the persisted self-throttle timestamp.
const backgroundTriggerID = "background-sync"

// backgroundTick is how often the loop re-checks whether a firing is due.
// The real spacing comes from the persisted last-attempt timestamp.
const backgroundTick = 15 * time.Minute

// Ensure BackgroundTrigger implements the interface.
var _ driving.SyncTrigger = (*BackgroundTrigger)(nil)

// BackgroundTrigger fires on a coarse timer while the application is
// backgrounded. It persists its last attempt time so the configured interval
// holds even across process restarts, and it never surfaces user-visible
// notifications; failures are logged only.
type BackgroundTrigger struct {
	engine   driving.SyncEngine
	state    driven.TriggerStateStore
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// now is injectable for tests.
	now func() time.Time
}

// NewBackgroundTrigger creates a background trigger with the given minimum
// spacing between firings.
func NewBackgroundTrigger(engine driving.SyncEngine, state driven.TriggerStateStore, interval time.Duration) *BackgroundTrigger {
	return &BackgroundTrigger{
		engine:   engine,
		state:    state,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the trigger loop. This method blocks until Stop is called or
// the context is cancelled.
func (t *BackgroundTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil // Already running
	}
	t.running = true
	t.stopCh = make(chan struct{})
	t.mu.Unlock()

	// Clear the flag on every exit path so the trigger can be restarted
	// after a context cancellation, not only after Stop.
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	// Check immediately on startup, then on the coarse tick.
	t.fireIfDue(ctx)

	ticker := time.NewTicker(backgroundTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.stopCh:
			return nil
		case <-ticker.C:
			t.fireIfDue(ctx)
		}
	}
}

// Stop gracefully shuts down the trigger loop.
func (t *BackgroundTrigger) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	close(t.stopCh)
	t.mu.Unlock()

	t.wg.Wait()
	return nil
}

// fireIfDue fires when the persisted last attempt is older than the
// configured interval.
func (t *BackgroundTrigger) fireIfDue(ctx context.Context) {
	last, err := t.state.LastAttempt(ctx, backgroundTriggerID)
	if err != nil {
		logger.Warn("background trigger: read last attempt: %v", err)
		return
	}
	if !last.IsZero() && t.now().Sub(last) < t.interval {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.Fire(ctx)
	}()
}

// Fire runs the engine once, records the attempt, and logs the outcome.
// Background work never raises user-visible notifications.
func (t *BackgroundTrigger) Fire(ctx context.Context) domain.SyncResult {
	result := t.engine.Run(ctx)

	// A busy skip means another run is mid-flight; leave the persisted
	// timestamp alone so this firing does not count as an attempt.
	if result.Skip == domain.SkipBusy {
		return result
	}

	if err := t.state.SetLastAttempt(ctx, backgroundTriggerID, t.now()); err != nil {
		logger.Warn("background trigger: record attempt: %v", err)
	}

	switch {
	case !result.Success:
		logger.Warn("background sync failed: %s", result.Error)
	case result.Skip == domain.SkipQuota:
		logger.Debug("background sync skipped: already synced today")
	default:
		logger.Info("background sync: %d records applied", result.RecordsProcessed)
	}
	return result
}
