package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
)

// Ensure EventStore implements the interface.
var _ driven.EventStore = (*EventStore)(nil)

// EventStore is an in-memory implementation of driven.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events map[string][]domain.PatchEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string][]domain.PatchEvent),
	}
}

// Append stores a new event for the workspace.
func (s *EventStore) Append(_ context.Context, workspaceID string, event domain.PatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[workspaceID] = append(s.events[workspaceID], event)
	return nil
}

// List returns all events for the workspace, ascending by version.
func (s *EventStore) List(_ context.Context, workspaceID string) ([]domain.PatchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]domain.PatchEvent, len(s.events[workspaceID]))
	copy(events, s.events[workspaceID])
	sort.Slice(events, func(i, j int) bool {
		return events[i].Version < events[j].Version
	})
	return events, nil
}

// Get retrieves a single event by version.
func (s *EventStore) Get(_ context.Context, workspaceID string, version int64) (*domain.PatchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, event := range s.events[workspaceID] {
		if event.Version == version {
			return &event, nil
		}
	}
	return nil, domain.ErrNotFound
}

// DiscardAfter deletes all events with version > afterVersion.
func (s *EventStore) DiscardAfter(_ context.Context, workspaceID string, afterVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[workspaceID][:0]
	for _, event := range s.events[workspaceID] {
		if event.Version <= afterVersion {
			kept = append(kept, event)
		}
	}
	s.events[workspaceID] = kept
	return nil
}
