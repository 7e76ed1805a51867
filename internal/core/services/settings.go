package services

import (
	"fmt"
	"strings"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyRemoteURL         = "remote.url"
	keyRemoteToken       = "remote.token"
	keySyncBatchSize     = "sync.batch_size"
	keySyncLookbackDays  = "sync.lookback_days"
	keySyncBackgroundHrs = "sync.background_interval_hours"
	keyDisplayLyrics     = "display.lyrics"
	keyVerbose           = "verbose"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		RemoteURL:               s.getString(keyRemoteURL, defaults.RemoteURL),
		RemoteToken:             s.configStore.GetString(keyRemoteToken),
		BatchSize:               s.configStore.GetInt(keySyncBatchSize),
		LookbackDays:            s.configStore.GetInt(keySyncLookbackDays),
		BackgroundIntervalHours: s.configStore.GetInt(keySyncBackgroundHrs),
		Display:                 s.getDisplay(defaults.Display),
		Verbose:                 s.configStore.GetBool(keyVerbose),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyRemoteURL, settings.RemoteURL); err != nil {
		return fmt.Errorf("save remote url: %w", err)
	}
	if settings.RemoteToken != "" {
		if err := s.configStore.Set(keyRemoteToken, settings.RemoteToken); err != nil {
			return fmt.Errorf("save remote token: %w", err)
		}
	}
	if err := s.configStore.Set(keySyncBatchSize, settings.BatchSize); err != nil {
		return fmt.Errorf("save batch size: %w", err)
	}
	if err := s.configStore.Set(keySyncLookbackDays, settings.LookbackDays); err != nil {
		return fmt.Errorf("save lookback days: %w", err)
	}
	if err := s.configStore.Set(keySyncBackgroundHrs, settings.BackgroundIntervalHours); err != nil {
		return fmt.Errorf("save background interval: %w", err)
	}
	if err := s.configStore.Set(keyDisplayLyrics, settings.Display.String()); err != nil {
		return fmt.Errorf("save display mode: %w", err)
	}
	if err := s.configStore.Set(keyVerbose, settings.Verbose); err != nil {
		return fmt.Errorf("save verbose: %w", err)
	}
	return nil
}

// SetRemote updates the remote endpoint and token in one step.
func (s *SettingsService) SetRemote(url, token string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.ErrInvalidInput
	}
	if err := s.configStore.Set(keyRemoteURL, url); err != nil {
		return fmt.Errorf("save remote url: %w", err)
	}
	if token != "" {
		if err := s.configStore.Set(keyRemoteToken, token); err != nil {
			return fmt.Errorf("save remote token: %w", err)
		}
	}
	return nil
}

// GetDefaults returns the default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDisplay(defaultVal domain.LyricsDisplay) domain.LyricsDisplay {
	display := domain.LyricsDisplay(s.configStore.GetString(keyDisplayLyrics))
	if display.IsValid() {
		return display
	}
	return defaultVal
}
