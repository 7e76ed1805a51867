// Package cli provides the cobra-based command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/config/file"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/notify"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/remote/httpapi"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/storage/sqlite"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
	"github.com/openhymnal/hymnal-cli/internal/core/services"
	"github.com/openhymnal/hymnal-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services the commands depend on. Injected by initServices in normal
// operation, or by SetServices in tests.
var (
	catalogService    driving.CatalogService
	favoritesService  driving.FavoritesService
	settingsService   driving.SettingsService
	syncEngine        driving.SyncEngine
	foregroundTrigger driving.SyncTrigger
)

// sqliteStore is held for cleanup after command execution.
var sqliteStore *sqlite.Store

// servicesInjected suppresses bootstrap when services come from outside
// (tests, or a caller that wired its own stack).
var servicesInjected bool

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

// Services bundles the driving ports the commands depend on.
type Services struct {
	Catalog           driving.CatalogService
	Favorites         driving.FavoritesService
	Settings          driving.SettingsService
	SyncEngine        driving.SyncEngine
	ForegroundTrigger driving.SyncTrigger
}

// SetServices injects pre-built services, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		servicesInjected = false
		catalogService = nil
		favoritesService = nil
		settingsService = nil
		syncEngine = nil
		foregroundTrigger = nil
		return
	}
	servicesInjected = true
	catalogService = s.Catalog
	favoritesService = s.Favorites
	settingsService = s.Settings
	syncEngine = s.SyncEngine
	foregroundTrigger = s.ForegroundTrigger
}

var rootCmd = &cobra.Command{
	Use:   "hymnal",
	Short: "Offline-first hymn archive",
	Long: `Hymnal keeps a local replica of the hymn archive and lets you browse,
search and favourite hymns without a network connection. The replica is
refreshed incrementally from the remote archive.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.hymnal)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.hymnal/data)")
}

// Execute runs the root command and releases resources afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires the full service stack from the persistent flags.
// Runs once per invocation before any command.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if servicesInjected {
		return nil
	}

	configStore, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	if settings.Verbose {
		logger.SetVerbose(true)
	}

	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening replica: %w", err)
	}
	sqliteStore = store

	replica := store.ReplicaStore()
	remote := httpapi.NewClient(httpapi.Config{
		BaseURL: settings.RemoteURL,
		Token:   settings.RemoteToken,
		Timeout: settings.SyncConfig().FetchTimeout,
	})

	engine := services.NewSyncEngine(replica, remote, settings.SyncConfig())
	syncEngine = engine
	foregroundTrigger = services.NewForegroundTrigger(engine, notify.NewLogNotifier(cmd.ErrOrStderr()))
	catalogService = services.NewCatalog(replica)
	favoritesService = services.NewFavorites(store.FavoriteStore(), replica)

	setTUIDeps(engine, store.TriggerStateStore(), configStore, settings)

	return nil
}

// closeServices releases resources opened by initServices.
func closeServices() {
	if sqliteStore != nil {
		if err := sqliteStore.Close(); err != nil {
			logger.Warn("closing replica: %v", err)
		}
		sqliteStore = nil
	}
}
