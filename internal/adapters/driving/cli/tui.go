package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/config/file"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
	"github.com/openhymnal/hymnal-cli/internal/core/services"
	"github.com/openhymnal/hymnal-cli/internal/logger"
)

// tuiDeps holds the extra wiring only the long-running TUI needs: the
// background trigger state and the config file watcher.
type tuiDeps struct {
	engine       driving.SyncEngine
	triggerState driven.TriggerStateStore
	configStore  *file.ConfigStore
	settings     *domain.AppSettings
}

var tuiWiring *tuiDeps

// setTUIDeps records the dependencies runTUI needs beyond the shared
// service vars.
func setTUIDeps(engine driving.SyncEngine, state driven.TriggerStateStore, configStore *file.ConfigStore, settings *domain.AppSettings) {
	tuiWiring = &tuiDeps{
		engine:       engine,
		triggerState: state,
		configStore:  configStore,
		settings:     settings,
	}
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

The TUI provides keyboard-driven browsing, search and favourites over the
local replica, and keeps the replica fresh in the background.

Controls:
  ↑/k, ↓/j - Navigate
  /        - Search
  Enter    - Open hymn
  f        - Toggle favourite
  F        - Favourites list
  s        - Synchronise now
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Panic recovery so terminal state problems come with a stack trace
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if catalogService == nil || favoritesService == nil || syncEngine == nil {
		return errors.New("services not configured")
	}

	ports := tui.NewPorts(catalogService, favoritesService, settingsService, syncEngine)
	ports.ForegroundTrigger = foregroundTrigger

	// The TUI is long-running: run the background trigger and watch the
	// config file while it is up.
	if tuiWiring != nil {
		interval := tuiWiring.settings.SyncConfig().BackgroundInterval
		background := services.NewBackgroundTrigger(tuiWiring.engine, tuiWiring.triggerState, interval)
		backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
		defer backgroundCancel()
		go func() {
			if err := background.Start(backgroundCtx); err != nil {
				logger.Warn("background trigger stopped: %v", err)
			}
		}()
		defer func() {
			if err := background.Stop(); err != nil {
				logger.Warn("stopping background trigger: %v", err)
			}
		}()

		watcher := file.NewWatcher(tuiWiring.configStore, nil)
		if err := watcher.Start(); err != nil {
			logger.Warn("config watcher unavailable: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("initialising TUI: %w", err)
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
