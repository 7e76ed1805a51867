// Package memory provides in-memory implementations of the storage ports.
// They mirror the SQLite adapter's semantics and back the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
)

// Ensure ReplicaStore implements the interface.
var _ driven.ReplicaStore = (*ReplicaStore)(nil)

// ReplicaStore is an in-memory implementation of driven.ReplicaStore.
type ReplicaStore struct {
	mu       sync.RWMutex
	hymns    map[int64]domain.Hymn
	cursor   time.Time
	attempts domain.DailyAttempts
}

// NewReplicaStore creates a new in-memory replica store.
func NewReplicaStore() *ReplicaStore {
	return &ReplicaStore{
		hymns: make(map[int64]domain.Hymn),
	}
}

// UpsertHymn inserts or replaces a hymn keyed by ID.
func (s *ReplicaStore) UpsertHymn(_ context.Context, hymn domain.Hymn) error {
	if hymn.ID < 0 {
		return domain.ErrPinnedID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hymns[hymn.ID] = hymn
	return nil
}

// DeleteHymn removes a hymn by ID. Idempotent.
func (s *ReplicaStore) DeleteHymn(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hymns, id)
	return nil
}

// GetHymn retrieves a hymn by ID.
func (s *ReplicaStore) GetHymn(_ context.Context, id int64) (*domain.Hymn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hymn, ok := s.hymns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &hymn, nil
}

// CountHymns returns the number of hymns stored.
func (s *ReplicaStore) CountHymns(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hymns), nil
}

// ListHymns returns hymns ordered by title, windowed by page.
func (s *ReplicaStore) ListHymns(_ context.Context, page domain.Page) ([]domain.Hymn, error) {
	return s.list(page, func(domain.Hymn) bool { return true }), nil
}

// ListByCategory returns hymns in a category ordered by title.
func (s *ReplicaStore) ListByCategory(_ context.Context, category string, page domain.Page) ([]domain.Hymn, error) {
	return s.list(page, func(h domain.Hymn) bool {
		return strings.EqualFold(h.Category, category)
	}), nil
}

// ListByPoet returns hymns by a poet ordered by title.
func (s *ReplicaStore) ListByPoet(_ context.Context, poet string, page domain.Page) ([]domain.Hymn, error) {
	return s.list(page, func(h domain.Hymn) bool {
		return strings.EqualFold(h.Poet, poet)
	}), nil
}

// ListByReciter returns hymns by a reciter ordered by title.
func (s *ReplicaStore) ListByReciter(_ context.Context, reciter string, page domain.Page) ([]domain.Hymn, error) {
	return s.list(page, func(h domain.Hymn) bool {
		return strings.EqualFold(h.Reciter, reciter)
	}), nil
}

// SearchHymns returns hymns matching a free-text query.
func (s *ReplicaStore) SearchHymns(_ context.Context, query string, page domain.Page) ([]domain.Hymn, error) {
	q := strings.ToLower(query)
	return s.list(page, func(h domain.Hymn) bool {
		for _, field := range []string{h.Title, h.Reciter, h.Poet, h.Lyrics, h.Translation} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	}), nil
}

// list collects matching hymns sorted by title and applies the page window.
func (s *ReplicaStore) list(page domain.Page, match func(domain.Hymn) bool) []domain.Hymn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Hymn, 0, len(s.hymns))
	for _, h := range s.hymns {
		if match(h) {
			matched = append(matched, h)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Title == matched[j].Title {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Title < matched[j].Title
	})

	if page.Offset >= len(matched) {
		return []domain.Hymn{}
	}
	matched = matched[page.Offset:]
	if page.Limit > 0 && page.Limit < len(matched) {
		matched = matched[:page.Limit]
	}
	return matched
}

// SyncCursor returns the replication watermark.
func (s *ReplicaStore) SyncCursor(_ context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor, nil
}

// SetSyncCursor persists the replication watermark.
func (s *ReplicaStore) SetSyncCursor(_ context.Context, cursor time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = cursor
	return nil
}

// DailyAttempts returns the persisted daily attempt counter.
func (s *ReplicaStore) DailyAttempts(_ context.Context) (domain.DailyAttempts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempts, nil
}

// IncrementDailyAttempt records one full sync attempt for the given date.
func (s *ReplicaStore) IncrementDailyAttempt(_ context.Context, today string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts.ResetIfStale(today)
	s.attempts.Count++
	return nil
}
