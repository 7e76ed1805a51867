package memory

import (
	"context"
	"sync"

	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
)

// Ensure FavoriteStore implements the interface.
var _ driven.FavoriteStore = (*FavoriteStore)(nil)

// FavoriteStore is an in-memory implementation of driven.FavoriteStore.
type FavoriteStore struct {
	mu    sync.RWMutex
	ids   map[int64]struct{}
	order []int64
}

// NewFavoriteStore creates a new in-memory favourite store.
func NewFavoriteStore() *FavoriteStore {
	return &FavoriteStore{
		ids: make(map[int64]struct{}),
	}
}

// AddFavorite adds a hymn ID to the set.
func (s *FavoriteStore) AddFavorite(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return nil
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	return nil
}

// RemoveFavorite removes a hymn ID from the set.
func (s *FavoriteStore) RemoveFavorite(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return nil
	}
	delete(s.ids, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// IsFavorite reports whether an ID is in the set.
func (s *FavoriteStore) IsFavorite(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok, nil
}

// ListFavorites returns all favourite IDs in insertion order.
func (s *FavoriteStore) ListFavorites(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out, nil
}
