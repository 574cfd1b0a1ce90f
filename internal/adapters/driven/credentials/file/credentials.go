// Package file provides the file-backed credentials adapter. The
// token lives in ~/.designsync/credentials.json with owner-only
// permissions.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore persists the access token as JSON.
type CredentialsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewCredentialsStore creates a credentials store.
// If configDir is empty, defaults to ~/.designsync.
func NewCredentialsStore(configDir string) (*CredentialsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".designsync")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create %s: %w", configDir, err)
	}
	return &CredentialsStore{filePath: filepath.Join(configDir, "credentials.json")}, nil
}

// Load reads the stored credentials. Returns
// domain.ErrNotAuthenticated if no credentials file exists or the file
// holds no token.
func (s *CredentialsStore) Load() (*domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	if !creds.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return &creds, nil
}

// Save writes credentials with owner-only permissions.
func (s *CredentialsStore) Save(creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.filePath, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Delete removes the credentials file. Deleting credentials that do
// not exist is not an error.
func (s *CredentialsStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Path returns the credentials file path.
func (s *CredentialsStore) Path() string {
	return s.filePath
}
