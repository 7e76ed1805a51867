package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/components/status"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/keymap"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/messages"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/styles"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/views/browse"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/views/favorites"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/views/lyrics"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// browseView is the hymn list and search view.
	browseView *browse.View

	// lyricsView shows a single hymn.
	lyricsView *lyrics.View

	// favoritesView lists the favourites.
	favoritesView *favorites.View

	// statusBar shows replica state and key hints.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	browseView := browse.NewView(s, km, ports.Catalog, ports.Favorites)
	lyricsView := lyrics.NewView(s, km, ports.Favorites)
	favoritesView := favorites.NewView(s, km, ports.Favorites)
	statusBar := status.NewBar(s, km)

	app := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		browseView:    browseView,
		lyricsView:    lyricsView,
		favoritesView: favoritesView,
		statusBar:     statusBar,
		currentView:   messages.ViewBrowse,
	}
	app.applyDisplaySetting()
	return app, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// applyDisplaySetting pushes the lyrics display setting into the lyrics view.
func (a *App) applyDisplaySetting() {
	if a.ports.Settings == nil {
		return
	}
	if settings, err := a.ports.Settings.Get(); err == nil {
		a.lyricsView.SetDisplay(settings.Display)
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("hymnal"),
		a.browseView.Init(),
		a.loadStatus(),
	}
	if a.ports.ForegroundTrigger != nil {
		// Startup counts as an app activation
		cmds = append(cmds, a.fireTrigger())
	}
	return tea.Batch(cmds...)
}

// loadStatus returns a command that refreshes the status bar.
func (a *App) loadStatus() tea.Cmd {
	return func() tea.Msg {
		st, err := a.ports.Sync.Status(a.ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

// fireTrigger returns a command that runs the foreground trigger.
func (a *App) fireTrigger() tea.Cmd {
	return func() tea.Msg {
		result := a.ports.ForegroundTrigger.Fire(a.ctx)
		return messages.SyncFinished{Result: result}
	}
}

// runSync returns a command that runs the engine directly, for the explicit
// sync keybinding. Skips are shown rather than suppressed.
func (a *App) runSync() tea.Cmd {
	return func() tea.Msg {
		result := a.ports.Sync.Run(a.ctx)
		return messages.SyncFinished{Result: result}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.browseView.SetDimensions(msg.Width, msg.Height)
		a.lyricsView.SetDimensions(msg.Width, msg.Height)
		a.favoritesView.SetDimensions(msg.Width, msg.Height)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.HymnSelected:
		a.applyDisplaySetting()
		a.currentView = messages.ViewLyrics
		return a, a.lyricsView.SetHymn(msg.Hymn)

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewFavorites {
			return a, a.favoritesView.Init()
		}
		return a, nil

	case messages.SyncFinished:
		a.statusBar.SetMessage(syncSummary(msg.Result))
		// Refresh whatever the sync may have changed
		cmds := []tea.Cmd{a.loadStatus()}
		if a.currentView == messages.ViewBrowse && msg.Result.RecordsProcessed > 0 {
			cmds = append(cmds, a.browseView.Init())
		}
		return a, tea.Batch(cmds...)

	case messages.StatusLoaded:
		if msg.Err == nil {
			a.statusBar.SetStatus(msg.Status)
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to the active view
	switch a.currentView {
	case messages.ViewBrowse:
		a.browseView, cmd = a.browseView.Update(msg)
	case messages.ViewLyrics:
		a.lyricsView, cmd = a.lyricsView.Update(msg)
	case messages.ViewFavorites:
		a.favoritesView, cmd = a.favoritesView.Update(msg)
	case messages.ViewHelp:
		// Help view has no message handling
	}

	return a, cmd
}

// handleKeyMsg routes key presses, applying global bindings first.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	keyStr := msg.String()

	// Global quit with ctrl+c
	if keyStr == "ctrl+c" {
		return a, tea.Quit
	}

	// While the browse filter has focus all keys belong to it
	if a.currentView == messages.ViewBrowse && a.browseView.Searching() {
		a.browseView, cmd = a.browseView.Update(msg)
		return a, cmd
	}

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(keyStr, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.currentView = messages.ViewBrowse
		} else {
			a.currentView = messages.ViewHelp
		}
		return a, nil

	case keymap.Matches(keyStr, a.keymap.Favorites):
		if a.currentView != messages.ViewFavorites {
			a.currentView = messages.ViewFavorites
			return a, a.favoritesView.Init()
		}
		return a, nil

	case keymap.Matches(keyStr, a.keymap.Sync):
		a.statusBar.SetMessage("Synchronising...")
		return a, a.runSync()
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(keyStr, a.keymap.Back) {
			a.currentView = messages.ViewBrowse
		}
		return a, nil
	}

	// Forward to active view
	switch a.currentView {
	case messages.ViewBrowse:
		a.browseView, cmd = a.browseView.Update(msg)
	case messages.ViewLyrics:
		a.lyricsView, cmd = a.lyricsView.Update(msg)
	case messages.ViewFavorites:
		a.favoritesView, cmd = a.favoritesView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewBrowse:
		body = a.browseView.View()
	case messages.ViewLyrics:
		body = a.lyricsView.View()
	case messages.ViewFavorites:
		body = a.favoritesView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.browseView.View()
	}

	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Keybindings"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Muted.Render("Press esc to return."))
	b.WriteString("\n")
	return b.String()
}

// syncSummary builds a one-line status message for a sync result.
func syncSummary(result domain.SyncResult) string {
	switch {
	case result.Error != "":
		return fmt.Sprintf("Sync failed: %s", result.Error)
	case result.Skip == domain.SkipQuota:
		return "Already synchronised today"
	case result.Skip == domain.SkipBusy:
		return "Sync already running"
	case result.RecordsProcessed == 0:
		return "Replica is up to date"
	default:
		return fmt.Sprintf("Synchronised %d records", result.RecordsProcessed)
	}
}
