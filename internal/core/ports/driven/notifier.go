package driven

import "github.com/openhymnal/hymnal-cli/internal/core/domain"

// SyncNotifier receives sync outcomes for user-visible presentation.
// The triggers decide which results to forward; the notifier decides how
// to display them.
type SyncNotifier interface {
	// Notify hands a non-suppressed sync result to the presentation
	// layer.
	Notify(result domain.SyncResult)
}
