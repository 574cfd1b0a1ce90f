// Package memory provides in-memory store implementations, used by
// unit tests and by `designsync serve --memory`.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.RemoteRecord
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.RemoteRecord),
	}
}

// Get retrieves a record by ID.
func (s *RecordStore) Get(_ context.Context, id string) (*domain.RemoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns all records ordered by creation time.
func (s *RecordStore) List(_ context.Context) ([]domain.RemoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.RemoteRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// Create stores a new record.
func (s *RecordStore) Create(_ context.Context, record domain.RemoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return domain.ErrAlreadyExists
	}
	s.records[record.ID] = record
	return nil
}

// Save updates an existing record.
func (s *RecordStore) Save(_ context.Context, record domain.RemoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; !exists {
		return domain.ErrNotFound
	}
	s.records[record.ID] = record
	return nil
}
