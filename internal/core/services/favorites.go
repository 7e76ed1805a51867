package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
	"github.com/openhymnal/hymnal-cli/internal/logger"
)

// Pinned pseudo-entries shown at the top of the favourites list. They use
// negative identifiers so they can never collide with replicated hymns;
// the sync engine only ever writes non-negative IDs.
var pinnedFavorites = []domain.Hymn{
	{ID: -1, Title: "Daily Selection", Category: "pinned"},
	{ID: -2, Title: "Recently Played", Category: "pinned"},
}

// Ensure Favorites implements the interface.
var _ driving.FavoritesService = (*Favorites)(nil)

// Favorites manages the user's favourites list: a simple owned-ID set over
// the replica, with pinned presentation entries prepended on listing.
type Favorites struct {
	store   driven.FavoriteStore
	replica driven.ReplicaStore
}

// NewFavorites creates a favourites service.
func NewFavorites(store driven.FavoriteStore, replica driven.ReplicaStore) *Favorites {
	return &Favorites{store: store, replica: replica}
}

// Add marks a hymn as a favourite. The hymn must exist in the replica and
// must not be a pinned pseudo-entry.
func (f *Favorites) Add(ctx context.Context, id int64) error {
	if id < 0 {
		return domain.ErrPinnedID
	}
	if _, err := f.replica.GetHymn(ctx, id); err != nil {
		return fmt.Errorf("resolve hymn %d: %w", id, err)
	}
	return f.store.AddFavorite(ctx, id)
}

// Remove unmarks a hymn as a favourite.
func (f *Favorites) Remove(ctx context.Context, id int64) error {
	if id < 0 {
		return domain.ErrPinnedID
	}
	return f.store.RemoveFavorite(ctx, id)
}

// Toggle flips the favourite state and returns the new state.
func (f *Favorites) Toggle(ctx context.Context, id int64) (bool, error) {
	fav, err := f.store.IsFavorite(ctx, id)
	if err != nil {
		return false, err
	}
	if fav {
		return false, f.Remove(ctx, id)
	}
	return true, f.Add(ctx, id)
}

// IsFavorite reports whether a hymn is a favourite.
func (f *Favorites) IsFavorite(ctx context.Context, id int64) (bool, error) {
	if id < 0 {
		return false, nil
	}
	return f.store.IsFavorite(ctx, id)
}

// List returns the pinned entries followed by the favourites resolved to
// hymns. A favourite whose hymn has since been tombstoned away is skipped
// rather than failing the whole listing.
func (f *Favorites) List(ctx context.Context) ([]domain.Hymn, error) {
	ids, err := f.store.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}

	hymns := make([]domain.Hymn, 0, len(pinnedFavorites)+len(ids))
	hymns = append(hymns, pinnedFavorites...)
	for _, id := range ids {
		hymn, err := f.replica.GetHymn(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("favourite %d no longer in replica, skipping", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve favourite %d: %w", id, err)
		}
		hymns = append(hymns, *hymn)
	}
	return hymns, nil
}
