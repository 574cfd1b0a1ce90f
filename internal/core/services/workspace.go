package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
)

// DocumentFileName is the synced document file in a workspace
// directory.
const DocumentFileName = "design.json"

// WorkspaceService ties a local directory to a remote workspace:
// it creates the workspace on init and opens it for every other
// command.
type WorkspaceService struct {
	dir     string
	configs driven.WorkspaceConfigStore
	client  driven.RemoteClient
}

// NewWorkspaceService creates a workspace service for the given
// directory.
func NewWorkspaceService(dir string, configs driven.WorkspaceConfigStore, client driven.RemoteClient) *WorkspaceService {
	return &WorkspaceService{dir: dir, configs: configs, client: client}
}

// DocumentPath returns the path of the synced document file.
func (s *WorkspaceService) DocumentPath() string {
	return filepath.Join(s.dir, DocumentFileName)
}

// Init creates the remote workspace and writes the local config. An
// existing design.json seeds the remote document; otherwise a minimal
// seed document is written to disk.
func (s *WorkspaceService) Init(ctx context.Context, name, remoteURL string) (*domain.WorkspaceConfig, error) {
	if _, err := s.configs.Load(); err == nil {
		return nil, fmt.Errorf("directory already initialised: %w", domain.ErrAlreadyExists)
	}

	seed, err := s.readSeed(name)
	if err != nil {
		return nil, err
	}

	id, err := s.client.Create(ctx, name, seed)
	if err != nil {
		return nil, fmt.Errorf("create remote workspace: %w", err)
	}

	cfg := domain.WorkspaceConfig{RemoteURL: remoteURL, WorkspaceID: id}
	if err := s.configs.Save(cfg); err != nil {
		return nil, err
	}
	if err := s.writeSeedIfAbsent(seed); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Open loads the workspace config and the current document.
func (s *WorkspaceService) Open() (*domain.WorkspaceConfig, domain.Document, error) {
	cfg, err := s.configs.Load()
	if err != nil {
		return nil, nil, err
	}

	raw, err := os.ReadFile(s.DocumentPath())
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", s.DocumentPath(), err)
	}
	doc, err := domain.DecodeDocument(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", s.DocumentPath(), err)
	}
	return cfg, doc, nil
}

// WriteDocument replaces the local document file. Used by undo/redo
// after the remote returns a recomputed document.
func (s *WorkspaceService) WriteDocument(doc domain.Document) error {
	encoded, err := domain.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(s.DocumentPath(), encoded, 0600); err != nil {
		return fmt.Errorf("write %s: %w", s.DocumentPath(), err)
	}
	return nil
}

// readSeed returns the existing document, or a minimal seed when the
// directory has no design.json yet.
func (s *WorkspaceService) readSeed(name string) (domain.Document, error) {
	raw, err := os.ReadFile(s.DocumentPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{"name": name, "layers": []any{}}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.DocumentPath(), err)
	}
	doc, err := domain.DecodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.DocumentPath(), err)
	}
	return doc, nil
}

// writeSeedIfAbsent materialises the seed document on first init.
func (s *WorkspaceService) writeSeedIfAbsent(seed domain.Document) error {
	if _, err := os.Stat(s.DocumentPath()); err == nil {
		return nil
	}
	return s.WriteDocument(seed)
}
