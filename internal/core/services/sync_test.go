package services

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/storage/memory"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// --- Mock remote source ---

// mockRemote implements driven.RemoteSource for testing.
type mockRemote struct {
	mu         stdsync.Mutex
	hymns      []domain.Hymn
	fetchErr   error
	pingErr    error
	noFilter   bool          // return hymns regardless of floor
	entered    chan struct{} // closed when a fetch starts, if set
	release    chan struct{} // fetch blocks until closed, if set
	fetchCalls int
	lastFloor  time.Time
	lastLimit  int
}

func (m *mockRemote) FetchModifiedSince(ctx context.Context, floor time.Time, limit int) ([]domain.Hymn, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.lastFloor = floor
	m.lastLimit = limit
	entered, release := m.entered, m.release
	m.mu.Unlock()

	if entered != nil {
		close(entered)
		m.mu.Lock()
		m.entered = nil
		m.mu.Unlock()
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.fetchErr != nil {
		return nil, m.fetchErr
	}

	var out []domain.Hymn
	for _, h := range m.hymns {
		if m.noFilter || h.UpdatedAt.After(floor) {
			out = append(out, h)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockRemote) Ping(_ context.Context) error {
	return m.pingErr
}

func (m *mockRemote) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

// --- Test fixtures ---

var testNow = time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

func remoteHymn(id int64, modified time.Time, deleted bool) domain.Hymn {
	return domain.Hymn{
		ID:        id,
		Title:     "Hymn",
		Reciter:   "Reciter",
		Poet:      "Poet",
		Category:  "praise",
		Lyrics:    "lyrics",
		UpdatedAt: modified,
		Deleted:   deleted,
	}
}

// newTestEngine builds an engine with a fixed clock and no chunk pauses.
func newTestEngine(replica *memory.ReplicaStore, remote *mockRemote) *SyncEngine {
	engine := NewSyncEngine(replica, remote, domain.DefaultSyncConfig())
	engine.now = func() time.Time { return testNow }
	engine.pause = func(context.Context, time.Duration) error { return nil }
	return engine
}

// --- Scenario tests (spec-level behaviour) ---

func TestSyncEngine_Run_FirstSync(t *testing.T) {
	// Scenario: cursor = 0, daily attempts = 0, remote holds 3 active
	// and 1 tombstoned record all modified at T.
	modTime := testNow.Add(-1 * time.Hour)
	replica := memory.NewReplicaStore()
	remote := &mockRemote{hymns: []domain.Hymn{
		remoteHymn(1, modTime, false),
		remoteHymn(2, modTime, false),
		remoteHymn(3, modTime, false),
		remoteHymn(4, modTime, true),
	}}
	engine := newTestEngine(replica, remote)
	ctx := context.Background()

	result := engine.Run(ctx)

	assert.True(t, result.Success)
	assert.Equal(t, domain.SkipNone, result.Skip)
	assert.Equal(t, 4, result.RecordsProcessed)
	assert.Equal(t, 3, result.ActiveRecords)
	assert.Equal(t, 1, result.DeletedRecords)
	assert.NotEmpty(t, result.RunID)

	count, err := replica.CountHymns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = replica.GetHymn(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cursor, err := replica.SyncCursor(ctx)
	require.NoError(t, err)
	assert.True(t, cursor.Equal(modTime))

	attempts, err := replica.DailyAttempts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts.Count)
	assert.Equal(t, domain.AttemptDate(testNow), attempts.Date)
}

func TestSyncEngine_Run_SecondRunSameDay_QuotaSkip(t *testing.T) {
	modTime := testNow.Add(-1 * time.Hour)
	replica := memory.NewReplicaStore()
	remote := &mockRemote{hymns: []domain.Hymn{remoteHymn(1, modTime, false)}}
	engine := newTestEngine(replica, remote)
	ctx := context.Background()

	first := engine.Run(ctx)
	require.True(t, first.Success)
	require.Equal(t, 1, first.RecordsProcessed)

	second := engine.Run(ctx)

	assert.True(t, second.Success)
	assert.Equal(t, domain.SkipQuota, second.Skip)
	assert.Equal(t, 0, second.RecordsProcessed)

	// Cursor and counter are untouched by the skip.
	cursor, err := replica.SyncCursor(ctx)
	require.NoError(t, err)
	assert.True(t, cursor.Equal(modTime))

	attempts, err := replica.DailyAttempts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts.Count)

	assert.Equal(t, 1, remote.calls())
}

func TestSyncEngine_Run_FetchError(t *testing.T) {
	replica := memory.NewReplicaStore()
	preCursor := testNow.Add(-48 * time.Hour)
	require.NoError(t, replica.SetSyncCursor(context.Background(), preCursor))

	remote := &mockRemote{fetchErr: errors.New("connection reset")}
	engine := newTestEngine(replica, remote)
	ctx := context.Background()

	result := engine.Run(ctx)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.RecordsProcessed)
	assert.NotEmpty(t, result.Error)
	assert.Contains(t, result.Error, "connection reset")

	// Failure leaves cursor and counter unchanged so the same work is
	// retried on the next trigger.
	cursor, err := replica.SyncCursor(ctx)
	require.NoError(t, err)
	assert.True(t, cursor.Equal(preCursor))

	attempts, err := replica.DailyAttempts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, attempts.Count)
}

func TestSyncEngine_Run_ConcurrentInvocation_Busy(t *testing.T) {
	replica := memory.NewReplicaStore()
	remote := &mockRemote{
		hymns:   []domain.Hymn{remoteHymn(1, testNow.Add(-time.Hour), false)},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	engine := newTestEngine(replica, remote)
	ctx := context.Background()

	done := make(chan domain.SyncResult, 1)
	go func() { done <- engine.Run(ctx) }()

	// Wait until the first run is mid-fetch, then invoke again.
	<-remote.entered
	second := engine.Run(ctx)

	assert.True(t, second.Success)
	assert.Equal(t, domain.SkipBusy, second.Skip)
	assert.Equal(t, 0, second.RecordsProcessed)

	// The second call must not have touched the store.
	count, err := replica.CountHymns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	close(remote.release)
	first := <-done
	assert.True(t, first.Success)
	assert.Equal(t, 1, first.RecordsProcessed)

	// Exactly one fetch happened across both invocations.
	assert.Equal(t, 1, remote.calls())
}

// --- Property tests ---

func TestSyncEngine_Run_EmptyBatch_NoStateChange(t *testing.T) {
	replica := memory.NewReplicaStore()
	preCursor := testNow.Add(-time.Hour)
	require.NoError(t, replica.SetSyncCursor(context.Background(), preCursor))

	remote := &mockRemote{} // nothing modified
	engine := newTestEngine(replica, remote)

	result := engine.Run(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.RecordsProcessed)

	cursor, err := replica.SyncCursor(context.Background())
	require.NoError(t, err)
	assert.True(t, cursor.Equal(preCursor))

	attempts, err := replica.DailyAttempts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, attempts.Count)
}

func TestSyncEngine_Run_FirstSyncUsesLookbackFloor(t *testing.T) {
	replica := memory.NewReplicaStore()
	remote := &mockRemote{}
	engine := newTestEngine(replica, remote)

	engine.Run(context.Background())

	want := testNow.Add(-domain.DefaultSyncConfig().InitialLookback)
	assert.True(t, remote.lastFloor.Equal(want),
		"first sync should query from the lookback floor, got %s", remote.lastFloor)
	assert.Equal(t, domain.DefaultSyncConfig().BatchSize, remote.lastLimit)
}

func TestSyncEngine_Run_IncrementalUsesCursorVerbatim(t *testing.T) {
	replica := memory.NewReplicaStore()
	cursor := testNow.Add(-30 * time.Minute)
	require.NoError(t, replica.SetSyncCursor(context.Background(), cursor))

	remote := &mockRemote{}
	engine := newTestEngine(replica, remote)

	engine.Run(context.Background())

	assert.True(t, remote.lastFloor.Equal(cursor))
}

func TestSyncEngine_Run_CursorMonotonic(t *testing.T) {
	replica := memory.NewReplicaStore()
	t1 := testNow.Add(-2 * time.Hour)
	t2 := testNow.Add(-1 * time.Hour)
	remote := &mockRemote{hymns: []domain.Hymn{
		remoteHymn(1, t1, false),
		remoteHymn(2, t2, false),
	}}
	engine := newTestEngine(replica, remote)
	ctx := context.Background()

	var prev time.Time
	for day := 0; day < 3; day++ {
		dayNow := testNow.AddDate(0, 0, day)
		engine.now = func() time.Time { return dayNow }
		engine.Run(ctx)

		cursor, err := replica.SyncCursor(ctx)
		require.NoError(t, err)
		assert.False(t, cursor.Before(prev), "cursor went backwards on day %d", day)
		prev = cursor
	}
	assert.True(t, prev.Equal(t2))
}

func TestSyncEngine_Run_ApplyFailure_NoCursorAdvance(t *testing.T) {
	replica := &failingReplica{ReplicaStore: memory.NewReplicaStore(), failAfter: 2}
	remote := &mockRemote{hymns: []domain.Hymn{
		remoteHymn(1, testNow.Add(-time.Hour), false),
		remoteHymn(2, testNow.Add(-time.Hour), false),
		remoteHymn(3, testNow.Add(-time.Hour), false),
	}}
	engine := NewSyncEngine(replica, remote, domain.DefaultSyncConfig())
	engine.now = func() time.Time { return testNow }
	engine.pause = func(context.Context, time.Duration) error { return nil }
	ctx := context.Background()

	result := engine.Run(ctx)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	cursor, err := replica.SyncCursor(ctx)
	require.NoError(t, err)
	assert.True(t, cursor.IsZero(), "cursor must not advance over a partially applied batch")

	attempts, err := replica.DailyAttempts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, attempts.Count)
}

func TestSyncEngine_Run_RetryAfterPartialFailure_Idempotent(t *testing.T) {
	failing := &failingReplica{ReplicaStore: memory.NewReplicaStore(), failAfter: 2}
	hymns := []domain.Hymn{
		remoteHymn(1, testNow.Add(-time.Hour), false),
		remoteHymn(2, testNow.Add(-time.Hour), false),
		remoteHymn(3, testNow.Add(-time.Hour), true),
	}
	remote := &mockRemote{hymns: hymns}
	engine := NewSyncEngine(failing, remote, domain.DefaultSyncConfig())
	engine.now = func() time.Time { return testNow }
	engine.pause = func(context.Context, time.Duration) error { return nil }
	ctx := context.Background()

	first := engine.Run(ctx)
	require.False(t, first.Success)

	// Retry re-fetches from the unchanged cursor and re-applies the same
	// batch; upserts and deletes are idempotent.
	failing.disarm()
	second := engine.Run(ctx)

	require.True(t, second.Success)
	assert.Equal(t, 3, second.RecordsProcessed)

	count, err := failing.CountHymns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSyncEngine_Run_QuotaBound_OneFetchPerDay(t *testing.T) {
	replica := memory.NewReplicaStore()
	remote := &mockRemote{hymns: []domain.Hymn{remoteHymn(1, testNow.Add(-time.Hour), false)}}
	engine := newTestEngine(replica, remote)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result := engine.Run(ctx)
		assert.True(t, result.Success)
	}

	assert.Equal(t, 1, remote.calls())
}

func TestSyncEngine_Run_FullBatch_AppliedInChunks(t *testing.T) {
	cfg := domain.DefaultSyncConfig()
	cfg.BatchSize = 4
	cfg.ChunkSize = 2

	replica := memory.NewReplicaStore()
	remote := &mockRemote{hymns: []domain.Hymn{
		remoteHymn(1, testNow.Add(-4*time.Hour), false),
		remoteHymn(2, testNow.Add(-3*time.Hour), false),
		remoteHymn(3, testNow.Add(-2*time.Hour), false),
		remoteHymn(4, testNow.Add(-1*time.Hour), false),
	}}
	engine := NewSyncEngine(replica, remote, cfg)
	engine.now = func() time.Time { return testNow }

	var pauses int
	engine.pause = func(context.Context, time.Duration) error {
		pauses++
		return nil
	}

	result := engine.Run(context.Background())

	require.True(t, result.Success)
	assert.Equal(t, 4, result.RecordsProcessed)
	assert.Equal(t, 1, pauses, "a full batch of 4 in chunks of 2 pauses once")

	cursor, err := replica.SyncCursor(context.Background())
	require.NoError(t, err)
	assert.True(t, cursor.Equal(testNow.Add(-1*time.Hour)))
}

func TestSyncEngine_Run_PartialBatch_NoChunking(t *testing.T) {
	replica := memory.NewReplicaStore()
	remote := &mockRemote{hymns: []domain.Hymn{
		remoteHymn(1, testNow.Add(-2*time.Hour), false),
		remoteHymn(2, testNow.Add(-1*time.Hour), false),
	}}
	engine := newTestEngine(replica, remote)

	var pauses int
	engine.pause = func(context.Context, time.Duration) error {
		pauses++
		return nil
	}

	result := engine.Run(context.Background())

	require.True(t, result.Success)
	assert.Equal(t, 0, pauses)
}

func TestSyncEngine_Run_NextDayResetsQuota(t *testing.T) {
	replica := memory.NewReplicaStore()
	remote := &mockRemote{hymns: []domain.Hymn{remoteHymn(1, testNow.Add(-time.Hour), false)}}
	engine := newTestEngine(replica, remote)
	ctx := context.Background()

	require.True(t, engine.Run(ctx).Success)
	require.Equal(t, domain.SkipQuota, engine.Run(ctx).Skip)

	// Advance the clock by a day; a fresh hymn appears remotely.
	nextDay := testNow.AddDate(0, 0, 1)
	engine.now = func() time.Time { return nextDay }
	remote.mu.Lock()
	remote.hymns = append(remote.hymns, remoteHymn(2, testNow.Add(time.Hour), false))
	remote.mu.Unlock()

	result := engine.Run(ctx)

	assert.True(t, result.Success)
	assert.Equal(t, domain.SkipNone, result.Skip)
	assert.Equal(t, 1, result.RecordsProcessed)

	attempts, err := replica.DailyAttempts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts.Count)
	assert.Equal(t, domain.AttemptDate(nextDay), attempts.Date)
}

func TestSyncEngine_Status(t *testing.T) {
	replica := memory.NewReplicaStore()
	ctx := context.Background()
	require.NoError(t, replica.UpsertHymn(ctx, remoteHymn(1, testNow, false)))
	cursor := testNow.Add(-time.Hour)
	require.NoError(t, replica.SetSyncCursor(ctx, cursor))
	require.NoError(t, replica.IncrementDailyAttempt(ctx, domain.AttemptDate(testNow)))

	remote := &mockRemote{}
	engine := newTestEngine(replica, remote)

	status, err := engine.Status(ctx)
	require.NoError(t, err)

	assert.True(t, status.LastSync.Equal(cursor))
	assert.Equal(t, 1, status.LocalRecords)
	assert.True(t, status.Online)
	assert.Equal(t, domain.MaxDailyAttempts-1, status.RemainingAttempts)
}

func TestSyncEngine_Status_Offline(t *testing.T) {
	replica := memory.NewReplicaStore()
	remote := &mockRemote{pingErr: errors.New("no route to host")}
	engine := newTestEngine(replica, remote)

	status, err := engine.Status(context.Background())
	require.NoError(t, err)

	assert.False(t, status.Online)
	assert.Equal(t, domain.MaxDailyAttempts, status.RemainingAttempts)
}

// --- failingReplica ---

// failingReplica wraps the memory store and fails the Nth write.
type failingReplica struct {
	*memory.ReplicaStore
	mu        stdsync.Mutex
	writes    int
	failAfter int
	disarmed  bool
}

func (f *failingReplica) disarm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disarmed = true
}

func (f *failingReplica) UpsertHymn(ctx context.Context, hymn domain.Hymn) error {
	if err := f.maybeFail(); err != nil {
		return err
	}
	return f.ReplicaStore.UpsertHymn(ctx, hymn)
}

func (f *failingReplica) DeleteHymn(ctx context.Context, id int64) error {
	if err := f.maybeFail(); err != nil {
		return err
	}
	return f.ReplicaStore.DeleteHymn(ctx, id)
}

func (f *failingReplica) maybeFail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disarmed {
		return nil
	}
	f.writes++
	if f.writes > f.failAfter {
		return errors.New("disk I/O error")
	}
	return nil
}
