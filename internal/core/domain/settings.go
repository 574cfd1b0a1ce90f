package domain

import "time"

// Default tuning values for user settings.
const (
	// DefaultDebounceMillis is the quiet period after the last file
	// write before a sync attempt starts.
	DefaultDebounceMillis = 300

	// DefaultRefreshMinutes is how often the sync loop re-reads the
	// credentials file and re-attaches the token.
	DefaultRefreshMinutes = 45
)

// Settings are user-level tool settings, stored in
// ~/.designsync/settings.toml. Zero values fall back to defaults.
type Settings struct {
	// DebounceMillis overrides the sync debounce quiet period.
	DebounceMillis int `toml:"debounce_millis"`

	// RefreshMinutes overrides the credential refresh interval.
	RefreshMinutes int `toml:"refresh_minutes"`

	// DefaultRemoteURL is used by `designsync init` when no --remote
	// flag is given.
	DefaultRemoteURL string `toml:"default_remote_url"`
}

// Debounce returns the effective debounce interval.
func (s Settings) Debounce() time.Duration {
	ms := s.DebounceMillis
	if ms <= 0 {
		ms = DefaultDebounceMillis
	}
	return time.Duration(ms) * time.Millisecond
}

// RefreshInterval returns the effective credential refresh interval.
func (s Settings) RefreshInterval() time.Duration {
	m := s.RefreshMinutes
	if m <= 0 {
		m = DefaultRefreshMinutes
	}
	return time.Duration(m) * time.Minute
}
