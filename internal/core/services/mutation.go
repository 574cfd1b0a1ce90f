package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driving"
)

// Ensure MutationService implements the interface.
var _ driving.Mutator = (*MutationService)(nil)

// MutationService implements the versioned mutation handler over a
// record store and an event store. Every effective mutation (update,
// undo, redo) increments the record version, which doubles as the OCC
// token: concurrent writers race here and exactly one wins per version.
type MutationService struct {
	records driven.RecordStore
	events  driven.EventStore

	// now is swappable for tests.
	now func() time.Time
}

// NewMutationService creates a mutation service.
func NewMutationService(records driven.RecordStore, events driven.EventStore) *MutationService {
	return &MutationService{
		records: records,
		events:  events,
		now:     time.Now,
	}
}

// Create makes a new workspace record. The initial document becomes
// both data and baseData; the timeline starts empty at event version 0.
func (s *MutationService) Create(ctx context.Context, name string, data domain.Document) (*domain.RemoteRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("workspace name: %w", domain.ErrInvalidInput)
	}

	canonical, err := domain.CloneDocument(data)
	if err != nil {
		return nil, fmt.Errorf("canonicalise document: %w", err)
	}
	base, err := domain.CloneDocument(canonical)
	if err != nil {
		return nil, fmt.Errorf("canonicalise document: %w", err)
	}

	now := s.now()
	record := domain.RemoteRecord{
		ID:              uuid.NewString(),
		Name:            name,
		Data:            canonical,
		BaseData:        base,
		Version:         1,
		EventVersion:    0,
		MaxEventVersion: 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	return &record, nil
}

// Get retrieves a record by ID.
func (s *MutationService) Get(ctx context.Context, id string) (*domain.RemoteRecord, error) {
	return s.records.Get(ctx, id)
}

// List returns all records.
func (s *MutationService) List(ctx context.Context) ([]domain.RemoteRecord, error) {
	return s.records.List(ctx)
}

// Update validates the expected version, computes and stores the patch,
// and advances the version counters.
//
// Resubmitting structurally equal data is idempotent: the result
// reports noChanges and neither counters nor the timeline move.
// An update issued while event history has been undone discards the
// redo tail first (history is linear, not a tree).
func (s *MutationService) Update(ctx context.Context, id string, data domain.Document, expectedVersion int64) (*domain.UpdateResult, error) {
	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.Version != expectedVersion {
		return nil, fmt.Errorf("expected version %d, stored version %d: %w",
			expectedVersion, record.Version, domain.ErrVersionConflict)
	}

	canonical, err := domain.CloneDocument(data)
	if err != nil {
		return nil, fmt.Errorf("canonicalise document: %w", err)
	}

	patches := domain.Diff(record.Data, canonical)
	if len(patches) == 0 {
		return &domain.UpdateResult{
			NoChanges:    true,
			Version:      record.Version,
			EventVersion: record.EventVersion,
		}, nil
	}

	// Branching off an undone point: drop the unreachable redo tail
	// before appending the new event.
	if record.EventVersion < record.MaxEventVersion {
		if err := s.events.DiscardAfter(ctx, id, record.EventVersion); err != nil {
			return nil, fmt.Errorf("discard redo tail: %w", err)
		}
	}

	record.Version++
	record.EventVersion++
	record.MaxEventVersion = record.EventVersion
	record.Data = canonical
	record.UpdatedAt = s.now()

	event := domain.PatchEvent{
		Version:   record.EventVersion,
		Timestamp: record.UpdatedAt,
		Patches:   patches,
	}
	if err := s.events.Append(ctx, id, event); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}
	if err := s.records.Save(ctx, *record); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}

	return &domain.UpdateResult{
		Version:      record.Version,
		EventVersion: record.EventVersion,
	}, nil
}

// Undo steps the record one event back. Data is recomputed by replaying
// the remaining timeline from baseData, which keeps the replay
// invariant auditable. Undo is itself a mutation for OCC purposes.
func (s *MutationService) Undo(ctx context.Context, id string) (*domain.UndoRedoResult, error) {
	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.EventVersion == 0 {
		return &domain.UndoRedoResult{
			Success:         false,
			Message:         "nothing to undo",
			PreviousVersion: record.Version,
			CurrentVersion:  record.Version,
		}, nil
	}

	target := record.EventVersion - 1
	data, err := s.replay(ctx, record, target)
	if err != nil {
		return nil, err
	}

	previous := record.Version
	record.EventVersion = target
	record.Data = data
	record.Version++
	record.UpdatedAt = s.now()

	if err := s.records.Save(ctx, *record); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}

	return &domain.UndoRedoResult{
		Success:         true,
		Data:            data,
		PreviousVersion: previous,
		CurrentVersion:  record.Version,
	}, nil
}

// Redo steps the record one event forward, up to the redo ceiling.
func (s *MutationService) Redo(ctx context.Context, id string) (*domain.UndoRedoResult, error) {
	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.EventVersion == record.MaxEventVersion {
		return &domain.UndoRedoResult{
			Success:         false,
			Message:         "nothing to redo",
			PreviousVersion: record.Version,
			CurrentVersion:  record.Version,
		}, nil
	}

	next := record.EventVersion + 1
	event, err := s.events.Get(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("load event %d: %w", next, err)
	}

	data, err := domain.Apply(record.Data, event.Patches)
	if err != nil {
		return nil, fmt.Errorf("apply event %d: %w", next, err)
	}

	previous := record.Version
	record.EventVersion = next
	record.Data = data
	record.Version++
	record.UpdatedAt = s.now()

	if err := s.records.Save(ctx, *record); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}

	return &domain.UndoRedoResult{
		Success:         true,
		Data:            data,
		PreviousVersion: previous,
		CurrentVersion:  record.Version,
	}, nil
}

// History returns the workspace's patch timeline, ascending by version.
func (s *MutationService) History(ctx context.Context, id string) ([]domain.PatchEvent, error) {
	if _, err := s.records.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.events.List(ctx, id)
}

// replay rebuilds the document at the given event version by applying
// events 1..target onto baseData.
func (s *MutationService) replay(ctx context.Context, record *domain.RemoteRecord, target int64) (domain.Document, error) {
	data, err := domain.CloneDocument(record.BaseData)
	if err != nil {
		return nil, fmt.Errorf("clone base data: %w", err)
	}

	events, err := s.events.List(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	for _, event := range events {
		if event.Version > target {
			break
		}
		data, err = domain.Apply(data, event.Patches)
		if err != nil {
			return nil, fmt.Errorf("replay event %d: %w", event.Version, err)
		}
	}
	return data, nil
}
