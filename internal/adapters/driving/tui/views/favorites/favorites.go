// Package favorites provides the favourites list view for the TUI.
package favorites

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/keymap"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/messages"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/styles"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
)

// View lists the favourites, pinned entries first.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	favorites driving.FavoritesService

	hymns    []domain.Hymn
	selected int
	width    int
	height   int
	loading  bool
	err      error
}

// NewView creates a new favourites view.
func NewView(s *styles.Styles, km *keymap.KeyMap, favorites driving.FavoritesService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		favorites: favorites,
		hymns:     []domain.Hymn{},
	}
}

// Init loads the favourites list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.selected = 0
	return v.loadFavorites()
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// loadFavorites returns a command that resolves the favourites list.
func (v *View) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		if v.favorites == nil {
			return messages.FavoritesLoaded{Err: fmt.Errorf("favorites service not available")}
		}
		hymns, err := v.favorites.List(context.Background())
		return messages.FavoritesLoaded{Hymns: hymns, Err: err}
	}
}

// Update handles messages for the favourites view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FavoritesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.hymns = msg.Hymns
		v.err = nil
		if v.selected >= len(v.hymns) {
			v.selected = len(v.hymns) - 1
		}
		if v.selected < 0 {
			v.selected = 0
		}
		return v, nil

	case messages.FavoriteToggled:
		// A removal changes the list; reload
		if msg.Err == nil {
			return v, v.loadFavorites()
		}
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}

	case keymap.Matches(keyStr, v.keymap.Down):
		if v.selected < len(v.hymns)-1 {
			v.selected++
		}

	case keymap.Matches(keyStr, v.keymap.Select):
		if v.selected < len(v.hymns) {
			hymn := v.hymns[v.selected]
			if hymn.IsPinned() {
				return v, nil
			}
			return v, func() tea.Msg {
				return messages.HymnSelected{Hymn: hymn}
			}
		}

	case keymap.Matches(keyStr, v.keymap.Favorite):
		if v.selected < len(v.hymns) && v.favorites != nil {
			hymn := v.hymns[v.selected]
			if hymn.IsPinned() {
				return v, nil
			}
			id := hymn.ID
			return v, func() tea.Msg {
				fav, err := v.favorites.Toggle(context.Background(), id)
				return messages.FavoriteToggled{ID: id, Favorite: fav, Err: err}
			}
		}

	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewBrowse}
		}
	}

	return v, nil
}

// View renders the favourites view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Favourites"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading favourites..."))
		b.WriteString("\n")
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
		return b.String()
	}

	for i := range v.hymns {
		h := &v.hymns[i]

		label := h.Title
		if h.IsPinned() {
			label = v.styles.Favorite.Render("* " + h.Title)
		}

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}

	return b.String()
}
