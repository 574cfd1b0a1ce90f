package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

func TestWorkspaceConfigStore_LoadMissing(t *testing.T) {
	store := NewWorkspaceConfigStore(t.TempDir())

	_, err := store.Load()

	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestWorkspaceConfigStore_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewWorkspaceConfigStore(tmpDir)

	cfg := domain.WorkspaceConfig{
		RemoteURL:   "https://sync.example.com",
		WorkspaceID: "ws-123",
	}
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
	assert.Equal(t, filepath.Join(tmpDir, ".designsync", "config.json"), store.Path())
}

func TestWorkspaceConfigStore_LoadIncomplete(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, ".designsync")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.json"),
		[]byte(`{"remoteUrl":"https://sync.example.com"}`), 0600))

	store := NewWorkspaceConfigStore(tmpDir)
	_, err := store.Load()

	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestWorkspaceConfigStore_LoadCorrupt(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, ".designsync")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("not json"), 0600))

	store := NewWorkspaceConfigStore(tmpDir)
	_, err := store.Load()

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConfigMissing)
}
