package driving

import "github.com/custodia-labs/designsync-cli/internal/core/domain"

// History is the local version log: journal-backed undo/redo and
// named checkpoints that work without network access.
type History interface {
	// Init loads the journal from disk. Missing or truncated files
	// degrade to empty history and are never fatal.
	Init() error

	// RecordChange appends a change entry and pushes its inverse onto
	// the undo stack. New edits clear the redo stack (branch discard,
	// same rule as the remote). Disk write failures propagate.
	RecordChange(patches, inverse []domain.PatchOp) error

	// Undo applies the top inverse patch to the current document and
	// returns the result. Returns nil (not an error) when the undo
	// stack is empty.
	Undo() (domain.Document, error)

	// Redo is symmetric to Undo.
	Redo() (domain.Document, error)

	// Checkpoint appends a permanent named marker entry.
	Checkpoint(name string) error

	// Document returns the current document state.
	Document() domain.Document

	// SetDocument replaces the current document state, e.g. after the
	// sync loop confirms a new state or a remote undo rewrites the
	// local file.
	SetDocument(doc domain.Document)

	// Entries returns a copy of the journal entries, oldest first.
	Entries() []domain.LocalLogEntry

	// Prune drops the oldest change entries, keeping at most keep of
	// them. Checkpoints are always retained.
	Prune(keep int) error
}
