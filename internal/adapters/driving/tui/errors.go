package tui

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("tui: catalog service is required")

// ErrMissingFavoritesService is returned when the favorites service is not provided.
var ErrMissingFavoritesService = errors.New("tui: favorites service is required")

// ErrMissingSyncEngine is returned when the sync engine is not provided.
var ErrMissingSyncEngine = errors.New("tui: sync engine is required")
