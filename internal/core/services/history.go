package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.History = (*HistoryService)(nil)

// historyStep pairs a change's forward patches with their inverse so
// undo and redo can move in either direction without replay.
type historyStep struct {
	forward []domain.PatchOp
	inverse []domain.PatchOp
}

// HistoryService is the local version log: an append-only journal of
// applied patches plus named checkpoints, with in-memory undo/redo
// stacks. It works entirely offline.
type HistoryService struct {
	journal driven.JournalStore

	mu       sync.Mutex
	document domain.Document
	entries  []domain.LocalLogEntry
	counter  int64
	undoes   []historyStep
	redoes   []historyStep

	// now is swappable for tests.
	now func() time.Time
}

// NewHistoryService creates a history service over the given journal.
// The document is the current local state undo/redo operate on.
func NewHistoryService(journal driven.JournalStore, document domain.Document) *HistoryService {
	return &HistoryService{
		journal:  journal,
		document: document,
		now:      time.Now,
	}
}

// Init loads the journal and rebuilds the undo stack from the stored
// inverses, so local undo survives process restarts. Load failures
// degrade to empty history; they are never fatal.
func (s *HistoryService) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.journal.Load()
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}

	s.entries = entries
	s.counter = 0
	s.undoes = nil
	s.redoes = nil
	for _, e := range entries {
		if e.V > s.counter {
			s.counter = e.V
		}
		if !e.IsCheckpoint() {
			s.undoes = append(s.undoes, historyStep{forward: e.Patches, inverse: e.Inverse})
		}
	}
	return nil
}

// RecordChange appends a change entry and pushes its inverse onto the
// undo stack. The redo stack is cleared: new edits invalidate forward
// history, mirroring the remote's branch-discard rule.
func (s *HistoryService) RecordChange(patches, inverse []domain.PatchOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.LocalLogEntry{
		V:       s.counter + 1,
		TS:      s.now(),
		Patches: patches,
		Inverse: inverse,
	}
	if err := s.journal.Append(entry); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}

	s.counter = entry.V
	s.entries = append(s.entries, entry)
	s.undoes = append(s.undoes, historyStep{forward: patches, inverse: inverse})
	s.redoes = nil
	return nil
}

// Undo applies the top inverse patch to the current document.
// Returns nil when there is nothing to undo.
func (s *HistoryService) Undo() (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undoes) == 0 {
		return nil, nil
	}
	step := s.undoes[len(s.undoes)-1]

	doc, err := domain.Apply(s.document, step.inverse)
	if err != nil {
		return nil, fmt.Errorf("apply inverse patch: %w", err)
	}

	s.undoes = s.undoes[:len(s.undoes)-1]
	s.redoes = append(s.redoes, step)
	s.document = doc
	return doc, nil
}

// Redo re-applies the most recently undone change.
// Returns nil when there is nothing to redo.
func (s *HistoryService) Redo() (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redoes) == 0 {
		return nil, nil
	}
	step := s.redoes[len(s.redoes)-1]

	doc, err := domain.Apply(s.document, step.forward)
	if err != nil {
		return nil, fmt.Errorf("apply forward patch: %w", err)
	}

	s.redoes = s.redoes[:len(s.redoes)-1]
	s.undoes = append(s.undoes, step)
	s.document = doc
	return doc, nil
}

// Checkpoint appends a permanent named marker entry. Checkpoints do
// not affect the undo/redo stacks and are never pruned.
func (s *HistoryService) Checkpoint(name string) error {
	if name == "" {
		return fmt.Errorf("checkpoint name: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.LocalLogEntry{
		V:              s.counter + 1,
		TS:             s.now(),
		CheckpointName: name,
	}
	if err := s.journal.Append(entry); err != nil {
		return fmt.Errorf("append checkpoint: %w", err)
	}

	s.counter = entry.V
	s.entries = append(s.entries, entry)
	return nil
}

// Document returns the current document state.
func (s *HistoryService) Document() domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

// SetDocument replaces the current document state.
func (s *HistoryService) SetDocument(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = doc
}

// Entries returns a copy of the journal entries, oldest first.
func (s *HistoryService) Entries() []domain.LocalLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.LocalLogEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Prune rewrites the journal keeping at most keep change entries (the
// newest ones). Checkpoints always survive.
func (s *HistoryService) Prune(keep int) error {
	if keep < 0 {
		return fmt.Errorf("prune keep count: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changes := 0
	for _, e := range s.entries {
		if !e.IsCheckpoint() {
			changes++
		}
	}

	drop := changes - keep
	if drop <= 0 {
		return nil
	}

	kept := make([]domain.LocalLogEntry, 0, len(s.entries)-drop)
	for _, e := range s.entries {
		if drop > 0 && !e.IsCheckpoint() {
			drop--
			continue
		}
		kept = append(kept, e)
	}

	if err := s.journal.Rewrite(kept); err != nil {
		return fmt.Errorf("rewrite journal: %w", err)
	}
	s.entries = kept
	return nil
}
