package driven

import (
	"context"
	"time"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// ReplicaStore is the local, always-available replica of the remote hymn
// collection. Besides record storage it persists two pieces of engine-private
// state: the sync cursor and the daily attempt counter. Those two fields are
// mutated only by the sync engine.
type ReplicaStore interface {
	// UpsertHymn inserts or replaces a hymn keyed by ID. Idempotent.
	// Rejects negative IDs with domain.ErrPinnedID.
	UpsertHymn(ctx context.Context, hymn domain.Hymn) error

	// DeleteHymn removes a hymn by ID. Deleting an absent ID is not an
	// error; the operation is idempotent.
	DeleteHymn(ctx context.Context, id int64) error

	// GetHymn retrieves a hymn by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetHymn(ctx context.Context, id int64) (*domain.Hymn, error)

	// CountHymns returns the number of hymns in the replica.
	CountHymns(ctx context.Context) (int, error)

	// ListHymns returns hymns ordered by title, windowed by page.
	ListHymns(ctx context.Context, page domain.Page) ([]domain.Hymn, error)

	// ListByCategory returns hymns in a category ordered by title.
	ListByCategory(ctx context.Context, category string, page domain.Page) ([]domain.Hymn, error)

	// ListByPoet returns hymns by a poet ordered by title.
	ListByPoet(ctx context.Context, poet string, page domain.Page) ([]domain.Hymn, error)

	// ListByReciter returns hymns by a reciter ordered by title.
	ListByReciter(ctx context.Context, reciter string, page domain.Page) ([]domain.Hymn, error)

	// SearchHymns returns hymns matching a free-text query over title,
	// reciter, poet and both lyric bodies.
	SearchHymns(ctx context.Context, query string, page domain.Page) ([]domain.Hymn, error)

	// SyncCursor returns the replication watermark. The zero time means
	// "never synced".
	SyncCursor(ctx context.Context) (time.Time, error)

	// SetSyncCursor persists the replication watermark.
	SetSyncCursor(ctx context.Context, cursor time.Time) error

	// DailyAttempts returns the persisted daily attempt counter.
	DailyAttempts(ctx context.Context) (domain.DailyAttempts, error)

	// IncrementDailyAttempt records one full sync attempt for the given
	// calendar date, resetting the counter first if the stored date
	// differs.
	IncrementDailyAttempt(ctx context.Context, today string) error
}
