package file

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/designsync-cli/internal/logger"
)

// Ensure JournalStore implements the interface.
var _ driven.JournalStore = (*JournalStore)(nil)

// JournalStore appends local log entries to a JSONL file. Appends are
// flushed per entry so a crash loses at most the line being written;
// Load tolerates a trailing truncated line for the same reason.
type JournalStore struct {
	mu       sync.Mutex
	filePath string
}

// NewJournalStore creates a journal store rooted at the workspace
// directory. The journal lives at <workspaceDir>/.designsync/events.jsonl.
func NewJournalStore(workspaceDir string) (*JournalStore, error) {
	dir := filepath.Join(workspaceDir, ".designsync")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &JournalStore{filePath: filepath.Join(dir, "events.jsonl")}, nil
}

// Load reads all entries. A missing file yields an empty history.
// Undecodable lines end the read: everything before them is returned,
// so a torn final write degrades to a shortened history rather than
// an error.
func (s *JournalStore) Load() ([]domain.LocalLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var entries []domain.LocalLogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry domain.LocalLogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			logger.Warn("Journal entry %d is unreadable, truncating history here: %v", len(entries)+1, err)
			break
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

// Append writes one entry and syncs it to disk.
func (s *JournalStore) Append(entry domain.LocalLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}

	f, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}
	return nil
}

// Rewrite replaces the journal atomically: the new contents are
// written to a temp file in the same directory and renamed over the
// journal, so readers never observe a partial rewrite.
func (s *JournalStore) Rewrite(entries []domain.LocalLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), "events-*.jsonl")
	if err != nil {
		return fmt.Errorf("create temp journal: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := bufio.NewWriter(tmp)
	for _, entry := range entries {
		line, err := json.Marshal(entry)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("encode journal entry %d: %w", entry.V, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			tmp.Close()
			return fmt.Errorf("write temp journal: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush temp journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp journal: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("chmod temp journal: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return fmt.Errorf("replace journal: %w", err)
	}
	return nil
}

// Path returns the journal file path.
func (s *JournalStore) Path() string {
	return s.filePath
}
