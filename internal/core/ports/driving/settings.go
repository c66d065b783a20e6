package driving

import "github.com/custodia-labs/fitedit/internal/core/domain"

// SettingsService reads and edits the persisted configuration.
type SettingsService interface {
	// Load builds the effective configuration from defaults and the store.
	// Invalid values are reported as domain.ErrInvalidInput.
	Load() (*domain.Config, error)

	// Set validates value for a known key and persists it.
	Set(key, value string) error

	// Keys lists the settable keys in display order.
	Keys() []string

	// Path returns the configuration file location.
	Path() string
}
