package domain

// WorkspaceConfig ties a local directory to a remote record.
// Stored in .designsync/config.json next to design.json.
type WorkspaceConfig struct {
	// RemoteURL is the base URL of the remote store.
	RemoteURL string `json:"remoteUrl"`

	// WorkspaceID is the remote record ID this directory syncs against.
	WorkspaceID string `json:"workspaceId"`
}

// Validate checks that the config is complete enough to sync.
func (c WorkspaceConfig) Validate() error {
	if c.RemoteURL == "" || c.WorkspaceID == "" {
		return ErrConfigMissing
	}
	return nil
}
