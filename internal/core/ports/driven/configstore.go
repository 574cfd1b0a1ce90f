package driven

import "github.com/custodia-labs/designsync-cli/internal/core/domain"

// WorkspaceConfigStore persists the per-workspace configuration
// (.designsync/config.json).
type WorkspaceConfigStore interface {
	// Load reads the workspace config.
	// Returns domain.ErrConfigMissing if the file does not exist.
	Load() (*domain.WorkspaceConfig, error)

	// Save writes the config, creating .designsync/ if needed.
	Save(cfg domain.WorkspaceConfig) error

	// Path returns the config file path.
	Path() string
}

// SettingsStore persists user-level tool settings
// (~/.designsync/settings.toml).
type SettingsStore interface {
	// Load reads settings, falling back to defaults for anything unset.
	// A missing file is not an error.
	Load() (*domain.Settings, error)

	// Save writes the settings file.
	Save(settings domain.Settings) error

	// Path returns the settings file path.
	Path() string
}
