// Package tui provides an interactive terminal user interface for hymnal.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog provides browse and search access to the replica.
	Catalog driving.CatalogService

	// Favorites manages the favourites list.
	Favorites driving.FavoritesService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Sync executes replication passes and reports replica status.
	Sync driving.SyncEngine

	// ForegroundTrigger fires on user-visible activation events. Optional;
	// when set the TUI fires it once on startup.
	ForegroundTrigger driving.SyncTrigger
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	catalog driving.CatalogService,
	favorites driving.FavoritesService,
	settings driving.SettingsService,
	sync driving.SyncEngine,
) *Ports {
	return &Ports{
		Catalog:   catalog,
		Favorites: favorites,
		Settings:  settings,
		Sync:      sync,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	if p.Favorites == nil {
		return ErrMissingFavoritesService
	}
	if p.Sync == nil {
		return ErrMissingSyncEngine
	}
	return nil
}
