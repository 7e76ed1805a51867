// Package lyrics provides the single-hymn lyrics view for the TUI.
package lyrics

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

// View shows one hymn with its lyric bodies.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	favorites driving.FavoritesService

	hymn     *domain.Hymn
	display  domain.LyricsDisplay
	favorite bool
	width    int
	height   int
	scroll   int
	err      error
}

// NewView creates a new lyrics view.
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
		display:   domain.DisplayBoth,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// SetDisplay selects which lyric bodies are rendered.
func (v *View) SetDisplay(display domain.LyricsDisplay) {
	if display.IsValid() {
		v.display = display
	}
}

// SetHymn sets the hymn to show and loads its favourite state.
func (v *View) SetHymn(hymn domain.Hymn) tea.Cmd {
	v.hymn = &hymn
	v.scroll = 0
	v.err = nil
	v.favorite = false

	if v.favorites == nil {
		return nil
	}
	id := hymn.ID
	return func() tea.Msg {
		fav, err := v.favorites.IsFavorite(context.Background(), id)
		return messages.FavoriteToggled{ID: id, Favorite: fav, Err: err}
	}
}

// Update handles messages for the lyrics view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FavoriteToggled:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if v.hymn != nil && msg.ID == v.hymn.ID {
			v.favorite = msg.Favorite
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.scroll > 0 {
			v.scroll--
		}

	case keymap.Matches(keyStr, v.keymap.Down):
		v.scroll++

	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewBrowse}
		}

	case keymap.Matches(keyStr, v.keymap.Favorite):
		if v.hymn == nil || v.favorites == nil {
			return v, nil
		}
		id := v.hymn.ID
		return v, func() tea.Msg {
			fav, err := v.favorites.Toggle(context.Background(), id)
			return messages.FavoriteToggled{ID: id, Favorite: fav, Err: err}
		}
	}

	return v, nil
}

// View renders the lyrics view.
func (v *View) View() string {
	if v.hymn == nil {
		return v.styles.Muted.Render("No hymn selected.")
	}

	var b strings.Builder

	marker := " "
	if v.favorite {
		marker = v.styles.Favorite.Render("★")
	}
	b.WriteString(v.styles.Title.Render(v.hymn.Title) + " " + marker)
	b.WriteString("\n")

	var meta []string
	if v.hymn.Poet != "" {
		meta = append(meta, "Poet: "+v.hymn.Poet)
	}
	if v.hymn.Reciter != "" {
		meta = append(meta, "Reciter: "+v.hymn.Reciter)
	}
	if v.hymn.Category != "" {
		meta = append(meta, "Category: "+v.hymn.Category)
	}
	if len(meta) > 0 {
		b.WriteString(v.styles.Muted.Render(strings.Join(meta, "  |  ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	body := v.renderBody()
	lines := strings.Split(body, "\n")
	if v.scroll >= len(lines) {
		v.scroll = len(lines) - 1
	}
	if v.scroll < 0 {
		v.scroll = 0
	}

	visible := v.height - 6
	if visible < 1 {
		visible = len(lines)
	}
	end := v.scroll + visible
	if end > len(lines) {
		end = len(lines)
	}
	b.WriteString(v.styles.Lyrics.Render(strings.Join(lines[v.scroll:end], "\n")))
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	return b.String()
}

// renderBody assembles the lyric bodies per the display setting.
func (v *View) renderBody() string {
	var parts []string

	if v.display != domain.DisplayTranslation && v.hymn.Lyrics != "" {
		parts = append(parts, v.hymn.Lyrics)
	}
	if v.display != domain.DisplayOriginal && v.hymn.Translation != "" {
		parts = append(parts, v.hymn.Translation)
	}

	if len(parts) == 0 {
		return "(no lyrics)"
	}
	return strings.Join(parts, "\n\n---\n\n")
}
