package driving

import (
	"context"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// CatalogService provides browse and search access to the local replica.
type CatalogService interface {
	// Get retrieves a single hymn by ID.
	Get(ctx context.Context, id int64) (*domain.Hymn, error)

	// List returns a page of hymns ordered by title.
	List(ctx context.Context, page domain.Page) ([]domain.Hymn, error)

	// ByCategory returns a page of hymns in a category.
	ByCategory(ctx context.Context, category string, page domain.Page) ([]domain.Hymn, error)

	// ByPoet returns a page of hymns by a poet.
	ByPoet(ctx context.Context, poet string, page domain.Page) ([]domain.Hymn, error)

	// ByReciter returns a page of hymns by a reciter.
	ByReciter(ctx context.Context, reciter string, page domain.Page) ([]domain.Hymn, error)

	// Search returns a page of hymns matching a free-text query.
	Search(ctx context.Context, query string, page domain.Page) ([]domain.Hymn, error)

	// Count returns the total number of hymns in the replica.
	Count(ctx context.Context) (int, error)
}
