package driven

import (
	"context"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

// RecordStore persists remote records, one per workspace.
// Implementations: SQLite (serve command), in-memory (tests).
type RecordStore interface {
	// Get retrieves a record by ID.
	// Returns domain.ErrNotFound if the record does not exist.
	Get(ctx context.Context, id string) (*domain.RemoteRecord, error)

	// List returns all records, ordered by creation time.
	List(ctx context.Context) ([]domain.RemoteRecord, error)

	// Create stores a new record.
	// Returns domain.ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, record domain.RemoteRecord) error

	// Save updates an existing record.
	// Returns domain.ErrNotFound if the record does not exist.
	Save(ctx context.Context, record domain.RemoteRecord) error
}

// EventStore persists the append-only patch timeline of each workspace.
type EventStore interface {
	// Append stores a new event for the workspace.
	Append(ctx context.Context, workspaceID string, event domain.PatchEvent) error

	// List returns all events for the workspace, ascending by version.
	List(ctx context.Context, workspaceID string) ([]domain.PatchEvent, error)

	// Get retrieves a single event by version.
	// Returns domain.ErrNotFound if no such event exists.
	Get(ctx context.Context, workspaceID string, version int64) (*domain.PatchEvent, error)

	// DiscardAfter deletes all events with version > afterVersion.
	// Used for branch discard: a new update issued below the redo
	// ceiling invalidates the undone tail of the timeline.
	DiscardAfter(ctx context.Context, workspaceID string, afterVersion int64) error
}
