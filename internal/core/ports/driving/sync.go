package driving

import (
	"context"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// SyncEngine executes incremental replication passes against the remote
// collection.
type SyncEngine interface {
	// Run performs one complete synchronisation pass. It is safe to call
	// at any time: overlapping calls collapse into a single active run
	// and the extras return a successful zero-record result. Run never
	// returns an error; failures are reported inside the result.
	Run(ctx context.Context) domain.SyncResult

	// Status returns a display-only snapshot of replication state.
	Status(ctx context.Context) (*domain.SyncStatus, error)
}

// SyncTrigger is a condition-activated wrapper around the engine.
// Implementations differ only in when they fire.
type SyncTrigger interface {
	// Fire invokes the engine once and handles result reporting.
	Fire(ctx context.Context) domain.SyncResult
}
