package driven

import (
	"context"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

// RemoteClient issues versioned document operations against the remote
// store. It attaches the bearer token to every call and maps remote
// failures onto the domain error taxonomy (ErrVersionConflict,
// ErrUnauthenticated, ErrAccessDenied, ErrNotFound, TransientError).
//
// The client never retries or backs off; retry policy belongs to the
// sync loop.
type RemoteClient interface {
	// Get retrieves a record. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.RemoteRecord, error)

	// List returns all records visible to the caller.
	List(ctx context.Context) ([]domain.RemoteRecord, error)

	// Create makes a new workspace record and returns its ID.
	Create(ctx context.Context, name string, data domain.Document) (string, error)

	// Update submits the full document with the expected OCC version.
	Update(ctx context.Context, id string, data domain.Document, expectedVersion int64) (*domain.UpdateResult, error)

	// Undo steps the record one event back.
	Undo(ctx context.Context, id string) (*domain.UndoRedoResult, error)

	// Redo steps the record one event forward.
	Redo(ctx context.Context, id string) (*domain.UndoRedoResult, error)

	// History returns the patch timeline, ascending by version.
	History(ctx context.Context, id string) ([]domain.PatchEvent, error)

	// SetToken swaps the bearer token without interrupting in-flight
	// calls. Used by the periodic credential-refresh tick.
	SetToken(token string)
}
