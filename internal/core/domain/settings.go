package domain

import "time"

// LyricsDisplay defines which lyric body the browser renders.
type LyricsDisplay string

// Available lyric display modes.
const (
	// DisplayOriginal shows only the original-language lyrics.
	DisplayOriginal LyricsDisplay = "original"

	// DisplayTranslation shows only the translated lyrics.
	DisplayTranslation LyricsDisplay = "translation"

	// DisplayBoth shows both bodies side by side.
	DisplayBoth LyricsDisplay = "both"
)

// IsValid returns true if the display mode is recognised.
func (d LyricsDisplay) IsValid() bool {
	switch d {
	case DisplayOriginal, DisplayTranslation, DisplayBoth:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d LyricsDisplay) String() string {
	return string(d)
}

// AppSettings holds user-facing configuration persisted in the config store.
type AppSettings struct {
	// RemoteURL is the base URL of the authoritative hymn collection.
	RemoteURL string

	// RemoteToken is the bearer token sent with remote requests.
	// Empty means unauthenticated access.
	RemoteToken string

	// BatchSize overrides the sync fetch ceiling when non-zero.
	BatchSize int

	// LookbackDays overrides the first-sync lookback window when non-zero.
	LookbackDays int

	// BackgroundIntervalHours overrides the background trigger spacing
	// when non-zero.
	BackgroundIntervalHours int

	// Display selects which lyric body the browser renders.
	Display LyricsDisplay

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultAppSettings returns settings used when no config file exists.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		RemoteURL: "https://api.openhymnal.org",
		Display:   DisplayBoth,
	}
}

// SyncConfig materialises the sync engine configuration, applying any
// overrides on top of the defaults.
func (s AppSettings) SyncConfig() SyncConfig {
	cfg := DefaultSyncConfig()
	if s.BatchSize > 0 {
		cfg.BatchSize = s.BatchSize
	}
	if s.LookbackDays > 0 {
		cfg.InitialLookback = time.Duration(s.LookbackDays) * 24 * time.Hour
	}
	if s.BackgroundIntervalHours > 0 {
		cfg.BackgroundInterval = time.Duration(s.BackgroundIntervalHours) * time.Hour
	}
	return cfg
}
