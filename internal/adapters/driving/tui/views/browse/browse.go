// Package browse provides the hymn list and search view for the TUI.
package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/keymap"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/messages"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/styles"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
)

// pageSize is how many hymns one load pulls from the catalog.
const pageSize = 200

// View is the hymn list and search view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	catalog   driving.CatalogService
	favorites driving.FavoritesService

	filter textinput.Model

	hymns        []domain.Hymn
	query        string
	selected     int
	scrollOffset int
	width        int
	height       int
	searching    bool
	loading      bool
	err          error
}

// NewView creates a new browse view.
func NewView(s *styles.Styles, km *keymap.KeyMap, catalog driving.CatalogService, favorites driving.FavoritesService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ti := textinput.New()
	ti.Placeholder = "Search title, poet, reciter or lyrics..."
	ti.CharLimit = 128
	ti.Width = 50

	return &View{
		styles:    s,
		keymap:    km,
		catalog:   catalog,
		favorites: favorites,
		filter:    ti,
		hymns:     []domain.Hymn{},
	}
}

// Init loads the first page of hymns.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadHymns("")
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Searching reports whether the filter input has focus.
func (v *View) Searching() bool {
	return v.searching
}

// Selected returns the currently highlighted hymn, or nil.
func (v *View) Selected() *domain.Hymn {
	if v.selected < 0 || v.selected >= len(v.hymns) {
		return nil
	}
	return &v.hymns[v.selected]
}

// loadHymns returns a command that lists or searches the catalog.
func (v *View) loadHymns(query string) tea.Cmd {
	return func() tea.Msg {
		if v.catalog == nil {
			return messages.HymnsLoaded{Err: fmt.Errorf("catalog service not available")}
		}

		ctx := context.Background()
		page := domain.Page{Limit: pageSize}

		var (
			hymns []domain.Hymn
			err   error
		)
		if query == "" {
			hymns, err = v.catalog.List(ctx, page)
		} else {
			hymns, err = v.catalog.Search(ctx, query, page)
		}
		return messages.HymnsLoaded{Hymns: hymns, Query: query, Err: err}
	}
}

// toggleFavorite returns a command that flips the highlighted hymn's state.
func (v *View) toggleFavorite() tea.Cmd {
	hymn := v.Selected()
	if hymn == nil || v.favorites == nil {
		return nil
	}
	id := hymn.ID
	return func() tea.Msg {
		fav, err := v.favorites.Toggle(context.Background(), id)
		return messages.FavoriteToggled{ID: id, Favorite: fav, Err: err}
	}
}

// Update handles messages for the browse view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.searching {
			return v.handleSearchKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.HymnsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.hymns = msg.Hymns
		v.query = msg.Query
		v.selected = 0
		v.scrollOffset = 0
		v.err = nil
		return v, nil

	case messages.FavoriteToggled:
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}

	case keymap.Matches(keyStr, v.keymap.Down):
		if v.selected < len(v.hymns)-1 {
			v.selected++
			v.adjustScroll()
		}

	case keymap.Matches(keyStr, v.keymap.Select):
		if hymn := v.Selected(); hymn != nil {
			selected := *hymn
			return v, func() tea.Msg {
				return messages.HymnSelected{Hymn: selected}
			}
		}

	case keymap.Matches(keyStr, v.keymap.Search):
		v.searching = true
		v.filter.SetValue(v.query)
		return v, v.filter.Focus()

	case keymap.Matches(keyStr, v.keymap.Favorite):
		return v, v.toggleFavorite()

	case keyStr == "esc":
		if v.query != "" {
			// Clear an active search filter
			v.loading = true
			return v, v.loadHymns("")
		}
	}

	return v, nil
}

// handleSearchKeyMsg handles key presses while the filter input is focused.
func (v *View) handleSearchKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.searching = false
		v.filter.Blur()
		v.loading = true
		return v, v.loadHymns(strings.TrimSpace(v.filter.Value()))

	case tea.KeyEsc:
		v.searching = false
		v.filter.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	return v, cmd
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount returns how many list rows fit on screen.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, filter, separator and status bar
	reserved := 7
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the browse view.
func (v *View) View() string {
	var b strings.Builder

	title := "Hymns"
	if v.query != "" {
		title = fmt.Sprintf("Hymns matching %q", v.query)
	}
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("%s (%d)", title, len(v.hymns))))
	b.WriteString("\n")

	if v.searching {
		b.WriteString(v.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading hymns..."))
		b.WriteString("\n")
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
		return b.String()
	}

	if len(v.hymns) == 0 {
		b.WriteString(v.styles.Muted.Render("No hymns in the local replica. Press s to synchronise."))
		b.WriteString("\n")
		return b.String()
	}

	visible := v.visibleItemCount()
	end := v.scrollOffset + visible
	if end > len(v.hymns) {
		end = len(v.hymns)
	}

	for i := v.scrollOffset; i < end; i++ {
		h := &v.hymns[i]
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + h.Title))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + h.Title))
		}
		if h.Poet != "" {
			b.WriteString(v.styles.Muted.Render("  " + h.Poet))
		}
		b.WriteString("\n")
	}

	if end < len(v.hymns) {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(v.hymns)-end)))
		b.WriteString("\n")
	}

	return b.String()
}
