package driving

import (
	"context"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// FavoritesService manages the user's favourites list.
type FavoritesService interface {
	// Add marks a hymn as a favourite.
	Add(ctx context.Context, id int64) error

	// Remove unmarks a hymn as a favourite.
	Remove(ctx context.Context, id int64) error

	// Toggle flips the favourite state and returns the new state.
	Toggle(ctx context.Context, id int64) (bool, error)

	// IsFavorite reports whether a hymn is a favourite.
	IsFavorite(ctx context.Context, id int64) (bool, error)

	// List returns the favourites resolved to hymns, preceded by the
	// pinned presentation entries.
	List(ctx context.Context) ([]domain.Hymn, error)
}
