package driven

import (
	"context"
	"time"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// RemoteSource is the authoritative hymn collection. The engine needs
// exactly one query shape from it: records modified after a floor, in
// modification-time order, capped at a limit.
type RemoteSource interface {
	// FetchModifiedSince returns hymns with modification time strictly
	// greater than floor, ordered ascending by modification time, at
	// most limit records. Tombstoned hymns are included.
	FetchModifiedSince(ctx context.Context, floor time.Time, limit int) ([]domain.Hymn, error)

	// Ping reports whether the remote is reachable.
	Ping(ctx context.Context) error
}
