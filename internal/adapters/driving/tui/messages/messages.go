// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBrowse is the hymn list and search view.
	ViewBrowse ViewType = iota
	// ViewLyrics shows a single hymn's lyrics.
	ViewLyrics
	// ViewFavorites lists the favourites.
	ViewFavorites
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewLyrics:
		return "lyrics"
	case ViewFavorites:
		return "favorites"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// HymnsLoaded carries a page of hymns from the catalog.
type HymnsLoaded struct {
	Hymns []domain.Hymn
	Query string
	Err   error
}

// HymnSelected signals a hymn was chosen for the lyrics view.
type HymnSelected struct {
	Hymn domain.Hymn
}

// FavoritesLoaded carries the resolved favourites list.
type FavoritesLoaded struct {
	Hymns []domain.Hymn
	Err   error
}

// FavoriteToggled signals a favourite state change.
type FavoriteToggled struct {
	ID       int64
	Favorite bool
	Err      error
}

// SyncFinished carries the outcome of a manually requested sync pass.
type SyncFinished struct {
	Result domain.SyncResult
}

// StatusLoaded carries the replica status for the status bar.
type StatusLoaded struct {
	Status *domain.SyncStatus
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
