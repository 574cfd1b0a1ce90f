package domain

import "time"

// RemoteRecord is the versioned document as the remote store holds it.
// One record exists per workspace.
type RemoteRecord struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	// Name is the human-readable workspace name.
	Name string `json:"name"`

	// Data is the current document.
	Data Document `json:"data"`

	// BaseData is the document at creation time (event version 0).
	// Immutable after creation; the patch timeline replays from it.
	BaseData Document `json:"baseData"`

	// Version is the OCC token, incremented on every effective mutation
	// (update, undo and redo all count).
	Version int64 `json:"version"`

	// EventVersion is the current position in the patch timeline.
	// 0 means BaseData.
	EventVersion int64 `json:"eventVersion"`

	// MaxEventVersion is the highest event version ever reached;
	// the redo ceiling. Invariant: 0 <= EventVersion <= MaxEventVersion.
	MaxEventVersion int64 `json:"maxEventVersion"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PatchEvent is one step in a record's patch timeline. Version is the
// event version the patches transition the document TO. Events are
// append-only per workspace and keyed (workspaceID, version); events
// beyond the current EventVersion are inactive redo history until a
// new update discards them.
type PatchEvent struct {
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Patches   []PatchOp `json:"patches"`
}

// UpdateResult reports the outcome of a versioned update.
type UpdateResult struct {
	// NoChanges is true when the submitted data was structurally equal
	// to the stored data; nothing advanced and no event was recorded.
	NoChanges bool `json:"noChanges"`

	Version      int64 `json:"version"`
	EventVersion int64 `json:"eventVersion"`
}

// UndoRedoResult reports the outcome of an undo or redo step.
// Success false with a Message is the "nothing to undo/redo" case,
// which is not an error.
type UndoRedoResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	// Data is the document after the step, when Success is true.
	Data Document `json:"data,omitempty"`

	PreviousVersion int64 `json:"previousVersion"`
	CurrentVersion  int64 `json:"currentVersion"`
}
