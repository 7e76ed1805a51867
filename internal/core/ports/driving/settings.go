package driving

import "github.com/openhymnal/hymnal-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, applying defaults for
	// unset keys.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetRemote updates the remote endpoint and token in one step.
	SetRemote(url, token string) error

	// GetDefaults returns the default settings.
	GetDefaults() domain.AppSettings
}
