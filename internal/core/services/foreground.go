package services

import (
	"context"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
	"github.com/openhymnal/hymnal-cli/internal/logger"
)

// Ensure ForegroundTrigger implements the interface.
var _ driving.SyncTrigger = (*ForegroundTrigger)(nil)

// ForegroundTrigger fires when the application becomes active or when
// connectivity returns while it is active. It forwards outcomes to the
// notifier, suppressing the busy and already-synced-today no-ops so repeated
// foregrounding stays quiet while genuine results still surface.
type ForegroundTrigger struct {
	engine   driving.SyncEngine
	notifier driven.SyncNotifier
}

// NewForegroundTrigger creates a foreground trigger. The notifier may be
// nil, in which case outcomes are logged only.
func NewForegroundTrigger(engine driving.SyncEngine, notifier driven.SyncNotifier) *ForegroundTrigger {
	return &ForegroundTrigger{engine: engine, notifier: notifier}
}

// AppActivated handles the app-becomes-active transition.
func (t *ForegroundTrigger) AppActivated(ctx context.Context) domain.SyncResult {
	logger.Debug("foreground trigger: app activated")
	return t.Fire(ctx)
}

// NetworkAvailable handles the connectivity-restored transition.
func (t *ForegroundTrigger) NetworkAvailable(ctx context.Context) domain.SyncResult {
	logger.Debug("foreground trigger: network available")
	return t.Fire(ctx)
}

// Fire runs the engine once and reports the outcome. The trigger holds no
// sync state of its own; mutual exclusion and the daily quota live entirely
// in the engine, so concurrent firings are safe.
func (t *ForegroundTrigger) Fire(ctx context.Context) domain.SyncResult {
	result := t.engine.Run(ctx)

	if result.Skipped() {
		logger.Debug("foreground trigger: suppressed %s skip", result.Skip)
		return result
	}
	if t.notifier != nil {
		t.notifier.Notify(result)
	}
	return result
}
