package domain

import "time"

// LocalLogEntry is one line of the local append-only journal
// (.designsync/events.jsonl). V is a local monotonic counter,
// independent of the remote record version.
//
// An entry is either a change (Patches/Inverse set) or a named
// checkpoint (CheckpointName set). Checkpoints are permanent markers:
// pruning never removes them.
type LocalLogEntry struct {
	V  int64     `json:"v"`
	TS time.Time `json:"ts"`

	// Patches transform the previous document state forward.
	Patches []PatchOp `json:"patches,omitempty"`

	// Inverse undoes Patches. Stored so local undo works without
	// replaying the whole journal.
	Inverse []PatchOp `json:"inverse,omitempty"`

	// CheckpointName marks this entry as a named checkpoint.
	CheckpointName string `json:"checkpoint,omitempty"`
}

// IsCheckpoint reports whether the entry is a named checkpoint.
func (e LocalLogEntry) IsCheckpoint() bool {
	return e.CheckpointName != ""
}
