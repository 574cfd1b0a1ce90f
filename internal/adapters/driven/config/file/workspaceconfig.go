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

// Ensure WorkspaceConfigStore implements the interface.
var _ driven.WorkspaceConfigStore = (*WorkspaceConfigStore)(nil)

// WorkspaceConfigStore persists the per-workspace configuration as
// JSON at <workspaceDir>/.designsync/config.json.
type WorkspaceConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewWorkspaceConfigStore creates a config store rooted at the
// workspace directory.
func NewWorkspaceConfigStore(workspaceDir string) *WorkspaceConfigStore {
	return &WorkspaceConfigStore{
		filePath: filepath.Join(workspaceDir, ".designsync", "config.json"),
	}
}

// Load reads the workspace config. Returns domain.ErrConfigMissing if
// the directory was never initialised.
func (s *WorkspaceConfigStore) Load() (*domain.WorkspaceConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrConfigMissing
		}
		return nil, fmt.Errorf("read workspace config: %w", err)
	}

	var cfg domain.WorkspaceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config, creating the .designsync directory if needed.
func (s *WorkspaceConfigStore) Save(cfg domain.WorkspaceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode workspace config: %w", err)
	}
	if err := os.WriteFile(s.filePath, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write workspace config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (s *WorkspaceConfigStore) Path() string {
	return s.filePath
}
