package driven

import "context"

// FavoriteStore persists the user's favourites as a set of hymn IDs.
type FavoriteStore interface {
	// AddFavorite adds a hymn ID to the set. Adding an existing ID is a
	// no-op.
	AddFavorite(ctx context.Context, id int64) error

	// RemoveFavorite removes a hymn ID from the set. Removing an absent
	// ID is a no-op.
	RemoveFavorite(ctx context.Context, id int64) error

	// IsFavorite reports whether an ID is in the set.
	IsFavorite(ctx context.Context, id int64) (bool, error)

	// ListFavorites returns all favourite IDs in insertion order.
	ListFavorites(ctx context.Context) ([]int64, error)
}
