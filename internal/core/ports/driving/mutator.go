package driving

import (
	"context"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

// Mutator is the remote mutation handler contract: versioned
// create/read/update/undo/redo over workspace records, with automatic
// patch recording and branch discard. The HTTP API is a thin shell
// around this interface.
type Mutator interface {
	// Create makes a new record with version 1 and an empty timeline.
	Create(ctx context.Context, name string, data domain.Document) (*domain.RemoteRecord, error)

	// Get retrieves a record. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.RemoteRecord, error)

	// List returns all records.
	List(ctx context.Context) ([]domain.RemoteRecord, error)

	// Update validates expectedVersion against the stored version
	// (domain.ErrVersionConflict on mismatch), records the diff as a
	// patch event and advances the version counters. Structurally
	// equal data is a no-op: nothing advances, no event is recorded.
	Update(ctx context.Context, id string, data domain.Document, expectedVersion int64) (*domain.UpdateResult, error)

	// Undo steps one event back, recomputing data by replay from
	// baseData. Success false means nothing to undo (not an error).
	Undo(ctx context.Context, id string) (*domain.UndoRedoResult, error)

	// Redo steps one event forward, up to the redo ceiling.
	Redo(ctx context.Context, id string) (*domain.UndoRedoResult, error)

	// History returns the patch timeline, ascending by version.
	History(ctx context.Context, id string) ([]domain.PatchEvent, error)
}
