package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

func TestNewSettingsStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewSettingsStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "settings.toml"), store.Path())
}

func TestSettingsStore_LoadMissingUsesDefaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, settings.Debounce())
	assert.Equal(t, 45*time.Minute, settings.RefreshInterval())
	assert.Empty(t, settings.DefaultRemoteURL)
}

func TestSettingsStore_SaveAndLoad(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(domain.Settings{
		DebounceMillis:   500,
		RefreshMinutes:   10,
		DefaultRemoteURL: "https://sync.example.com",
	}))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, settings.Debounce())
	assert.Equal(t, 10*time.Minute, settings.RefreshInterval())
	assert.Equal(t, "https://sync.example.com", settings.DefaultRemoteURL)
}

func TestSettingsStore_LoadPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("debounce_millis = 150\n"), 0600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, settings.Debounce())
	// Unset values fall back to defaults.
	assert.Equal(t, 45*time.Minute, settings.RefreshInterval())
}
