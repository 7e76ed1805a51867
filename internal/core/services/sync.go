package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
	"github.com/openhymnal/hymnal-cli/internal/logger"
)

// pingTimeout bounds the connectivity probe in Status.
const pingTimeout = 3 * time.Second

// Ensure SyncEngine implements the interface.
var _ driving.SyncEngine = (*SyncEngine)(nil)

// SyncEngine owns the replication protocol: cursor selection, batched fetch,
// upsert/tombstone application, cursor advancement, daily quota bookkeeping,
// and mutual exclusion between overlapping runs.
type SyncEngine struct {
	replica driven.ReplicaStore
	remote  driven.RemoteSource
	cfg     domain.SyncConfig

	// running is the re-entrancy guard. It is owned by this instance so
	// independent engines can coexist in tests, and it is released via
	// defer on every exit path.
	running atomic.Bool

	// now and pause are injectable for tests.
	now   func() time.Time
	pause func(ctx context.Context, d time.Duration) error
}

// NewSyncEngine creates a sync engine over the given stores.
func NewSyncEngine(replica driven.ReplicaStore, remote driven.RemoteSource, cfg domain.SyncConfig) *SyncEngine {
	return &SyncEngine{
		replica: replica,
		remote:  remote,
		cfg:     cfg,
		now:     time.Now,
		pause:   sleepCtx,
	}
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run performs one complete synchronisation pass.
//
// The cursor only advances over a fully-applied batch: any fetch or apply
// failure leaves cursor and counter untouched so the identical work is
// retried on the next trigger. Upserts and deletes are idempotent, so a
// retry after partial application is safe.
func (e *SyncEngine) Run(ctx context.Context) (res domain.SyncResult) {
	start := time.Now()
	res = domain.SyncResult{RunID: uuid.NewString()}
	defer func() { res.Duration = time.Since(start) }()

	// A second trigger firing mid-run is a no-op, not an error.
	if !e.running.CompareAndSwap(false, true) {
		logger.Debug("sync %s: run already in progress, skipping", res.RunID)
		res.Success = true
		res.Skip = domain.SkipBusy
		return res
	}
	defer e.running.Store(false)

	cursor, err := e.replica.SyncCursor(ctx)
	if err != nil {
		return e.fail(res, fmt.Errorf("read cursor: %w", err))
	}
	attempts, err := e.replica.DailyAttempts(ctx)
	if err != nil {
		return e.fail(res, fmt.Errorf("read daily attempts: %w", err))
	}

	// Bound remote-read cost to once per day regardless of how often the
	// triggers fire. A zero cursor means the first sync never completed,
	// so the quota does not apply yet.
	today := domain.AttemptDate(e.now())
	if attempts.Date == today && !cursor.IsZero() {
		logger.Info("sync %s: already synced today, skipping", res.RunID)
		res.Success = true
		res.Skip = domain.SkipQuota
		return res
	}

	// First-ever sync pulls only recent activity, not the full history.
	floor := cursor
	if floor.IsZero() {
		floor = e.now().Add(-e.cfg.InitialLookback)
	}

	fetchCtx := ctx
	if e.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
		defer cancel()
	}
	batch, err := e.remote.FetchModifiedSince(fetchCtx, floor, e.cfg.BatchSize)
	if err != nil {
		return e.fail(res, fmt.Errorf("fetch modified since %s: %w", floor.Format(time.RFC3339), err))
	}
	if len(batch) == 0 {
		logger.Debug("sync %s: no changes since %s", res.RunID, floor.Format(time.RFC3339))
		res.Success = true
		return res
	}

	if err := e.applyBatch(ctx, batch, &res); err != nil {
		return e.fail(res, err)
	}

	// Advance state only after the whole batch is applied.
	maxSeen := batch[0].UpdatedAt
	for _, h := range batch[1:] {
		if h.UpdatedAt.After(maxSeen) {
			maxSeen = h.UpdatedAt
		}
	}
	if err := e.replica.SetSyncCursor(ctx, maxSeen); err != nil {
		return e.fail(res, fmt.Errorf("advance cursor: %w", err))
	}
	if err := e.replica.IncrementDailyAttempt(ctx, today); err != nil {
		return e.fail(res, fmt.Errorf("record attempt: %w", err))
	}

	logger.Info("sync %s: applied %d records (%d upserts, %d deletes), cursor %s",
		res.RunID, res.RecordsProcessed, res.ActiveRecords, res.DeletedRecords,
		maxSeen.Format(time.RFC3339))
	res.Success = true
	return res
}

// applyBatch writes a fetched batch into the replica, counting upserts and
// deletions into res. A full batch (at the fetch ceiling) is applied in
// sub-chunks with a pause between them to throttle write pressure.
func (e *SyncEngine) applyBatch(ctx context.Context, batch []domain.Hymn, res *domain.SyncResult) error {
	chunk := len(batch)
	if len(batch) >= e.cfg.BatchSize && e.cfg.ChunkSize > 0 {
		chunk = e.cfg.ChunkSize
	}

	for from := 0; from < len(batch); from += chunk {
		if from > 0 {
			if err := e.pause(ctx, e.cfg.ChunkPause); err != nil {
				return fmt.Errorf("pause between chunks: %w", err)
			}
		}
		to := from + chunk
		if to > len(batch) {
			to = len(batch)
		}
		for _, h := range batch[from:to] {
			if h.Deleted {
				if err := e.replica.DeleteHymn(ctx, h.ID); err != nil {
					return fmt.Errorf("delete hymn %d: %w", h.ID, err)
				}
				res.DeletedRecords++
			} else {
				if err := e.replica.UpsertHymn(ctx, h); err != nil {
					return fmt.Errorf("upsert hymn %d: %w", h.ID, err)
				}
				res.ActiveRecords++
			}
			res.RecordsProcessed++
		}
	}
	return nil
}

// fail converts an error into a failure result. Counters are zeroed so a
// failed run reports the same shape regardless of where it stopped.
func (e *SyncEngine) fail(res domain.SyncResult, err error) domain.SyncResult {
	logger.Warn("sync %s: %v", res.RunID, err)
	res.Success = false
	res.Error = err.Error()
	res.RecordsProcessed = 0
	res.ActiveRecords = 0
	res.DeletedRecords = 0
	return res
}

// Status returns a display-only snapshot: cursor, local record count,
// connectivity and remaining daily attempts. No side effects.
func (e *SyncEngine) Status(ctx context.Context) (*domain.SyncStatus, error) {
	cursor, err := e.replica.SyncCursor(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}
	attempts, err := e.replica.DailyAttempts(ctx)
	if err != nil {
		return nil, fmt.Errorf("read daily attempts: %w", err)
	}
	count, err := e.replica.CountHymns(ctx)
	if err != nil {
		return nil, fmt.Errorf("count hymns: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	online := e.remote.Ping(pingCtx) == nil

	return &domain.SyncStatus{
		LastSync:          cursor,
		LocalRecords:      count,
		Online:            online,
		RemainingAttempts: attempts.Remaining(domain.AttemptDate(e.now())),
	}, nil
}
