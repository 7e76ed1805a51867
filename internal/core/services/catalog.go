package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
)

// defaultPageSize bounds listings when the caller passes no limit.
const defaultPageSize = 50

// Ensure Catalog implements the interface.
var _ driving.CatalogService = (*Catalog)(nil)

// Catalog provides browse and search access to the local replica.
// It is read-only; the replica is populated exclusively by the sync engine.
type Catalog struct {
	replica driven.ReplicaStore
}

// NewCatalog creates a catalog service over the replica store.
func NewCatalog(replica driven.ReplicaStore) *Catalog {
	return &Catalog{replica: replica}
}

// normalisePage applies the default limit and clamps negative offsets.
func normalisePage(page domain.Page) domain.Page {
	if page.Limit <= 0 {
		page.Limit = defaultPageSize
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page
}

// Get retrieves a single hymn by ID.
func (c *Catalog) Get(ctx context.Context, id int64) (*domain.Hymn, error) {
	hymn, err := c.replica.GetHymn(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get hymn %d: %w", id, err)
	}
	return hymn, nil
}

// List returns a page of hymns ordered by title.
func (c *Catalog) List(ctx context.Context, page domain.Page) ([]domain.Hymn, error) {
	return c.replica.ListHymns(ctx, normalisePage(page))
}

// ByCategory returns a page of hymns in a category.
func (c *Catalog) ByCategory(ctx context.Context, category string, page domain.Page) ([]domain.Hymn, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.ErrInvalidInput
	}
	return c.replica.ListByCategory(ctx, category, normalisePage(page))
}

// ByPoet returns a page of hymns by a poet.
func (c *Catalog) ByPoet(ctx context.Context, poet string, page domain.Page) ([]domain.Hymn, error) {
	if strings.TrimSpace(poet) == "" {
		return nil, domain.ErrInvalidInput
	}
	return c.replica.ListByPoet(ctx, poet, normalisePage(page))
}

// ByReciter returns a page of hymns by a reciter.
func (c *Catalog) ByReciter(ctx context.Context, reciter string, page domain.Page) ([]domain.Hymn, error) {
	if strings.TrimSpace(reciter) == "" {
		return nil, domain.ErrInvalidInput
	}
	return c.replica.ListByReciter(ctx, reciter, normalisePage(page))
}

// Search returns a page of hymns matching a free-text query.
func (c *Catalog) Search(ctx context.Context, query string, page domain.Page) ([]domain.Hymn, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	return c.replica.SearchHymns(ctx, query, normalisePage(page))
}

// Count returns the total number of hymns in the replica.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	return c.replica.CountHymns(ctx)
}
