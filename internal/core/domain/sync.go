package domain

import "time"

// attemptDateLayout is the calendar-date format stored alongside the daily
// attempt counter.
const attemptDateLayout = "2006-01-02"

// MaxDailyAttempts caps full remote-fetch attempts per calendar day.
const MaxDailyAttempts = 2

// AttemptDate formats a wall-clock time as the calendar date used for daily
// quota bookkeeping.
func AttemptDate(t time.Time) string {
	return t.Format(attemptDateLayout)
}

// DailyAttempts tracks how many full sync attempts ran on a given calendar
// date. It is persisted in the replica store and mutated only by the sync
// engine.
type DailyAttempts struct {
	// Count is the number of attempts recorded for Date.
	Count int

	// Date is the calendar date (YYYY-MM-DD) the counter applies to.
	Date string
}

// ResetIfStale zeroes the counter when the stored date differs from today.
func (d *DailyAttempts) ResetIfStale(today string) {
	if d.Date != today {
		d.Count = 0
		d.Date = today
	}
}

// Remaining returns how many attempts are left for today, floored at zero.
func (d DailyAttempts) Remaining(today string) int {
	if d.Date != today {
		return MaxDailyAttempts
	}
	if d.Count >= MaxDailyAttempts {
		return 0
	}
	return MaxDailyAttempts - d.Count
}

// SkipReason marks a sync run that completed without a network phase.
type SkipReason string

const (
	// SkipNone means the run performed (or attempted) a real fetch.
	SkipNone SkipReason = ""

	// SkipBusy means another run was already in progress.
	SkipBusy SkipReason = "busy"

	// SkipQuota means today's sync already completed.
	SkipQuota SkipReason = "quota"
)

// SyncResult is the outcome of a single sync run. It is handed to the
// reporting collaborator and never persisted.
type SyncResult struct {
	// RunID uniquely identifies the run for log correlation.
	RunID string

	// Success is false only for genuine fetch/apply failures. Busy and
	// quota skips are successful no-ops.
	Success bool

	// Skip distinguishes the two no-op paths from a real run.
	Skip SkipReason

	// RecordsProcessed counts every record applied in this run.
	RecordsProcessed int

	// ActiveRecords counts records applied as upserts.
	ActiveRecords int

	// DeletedRecords counts tombstones applied as deletions.
	DeletedRecords int

	// Error is a human-readable description when Success is false.
	Error string

	// Duration is how long the run took.
	Duration time.Duration
}

// Skipped reports whether the run short-circuited without fetching.
func (r SyncResult) Skipped() bool {
	return r.Skip != SkipNone
}

// SyncStatus is a read-only snapshot for display purposes.
type SyncStatus struct {
	// LastSync is the current sync cursor; zero means never synced.
	LastSync time.Time

	// LocalRecords is the number of hymns in the replica.
	LocalRecords int

	// Online reports whether the remote source is reachable.
	Online bool

	// RemainingAttempts is how many full syncs are left today.
	RemainingAttempts int
}

// SyncConfig holds the tunable parameters of the sync engine and triggers.
type SyncConfig struct {
	// BatchSize is the fetch ceiling per run. A backlog larger than one
	// batch drains over multiple trigger firings.
	BatchSize int

	// ChunkSize is the sub-chunk size used when a full batch arrives.
	ChunkSize int

	// ChunkPause is the pause between sub-chunks, throttling burst write
	// pressure on the replica store.
	ChunkPause time.Duration

	// InitialLookback bounds the first-ever sync: the query floor is
	// now minus this window rather than the beginning of history.
	InitialLookback time.Duration

	// FetchTimeout is the per-call deadline applied to remote fetches so
	// a hung request cannot hold the run guard indefinitely.
	FetchTimeout time.Duration

	// BackgroundInterval is the minimum spacing between background
	// trigger firings.
	BackgroundInterval time.Duration
}

// DefaultSyncConfig returns the defaults used by the CLI.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		BatchSize:          200,
		ChunkSize:          50,
		ChunkPause:         150 * time.Millisecond,
		InitialLookback:    30 * 24 * time.Hour,
		FetchTimeout:       30 * time.Second,
		BackgroundInterval: 24 * time.Hour,
	}
}
