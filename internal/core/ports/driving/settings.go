package driving

import "github.com/custodia-labs/folio/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set updates one setting by its config key, e.g. "store.backend".
	Set(key, value string) error

	// Keys lists the settable config keys.
	Keys() []string

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ConfigPath returns where settings are stored.
	ConfigPath() string
}
