package driving

import (
	"context"
	"time"
)

// SyncState is the sync loop's current state.
type SyncState string

const (
	// StateIdle means no sync activity and no timer pending.
	StateIdle SyncState = "idle"
	// StateDebouncing means a file change arrived and the quiet-period
	// timer is running.
	StateDebouncing SyncState = "debouncing"
	// StateSyncing means a remote update call is in flight.
	StateSyncing SyncState = "syncing"
	// StateDisposed means the loop has shut down.
	StateDisposed SyncState = "disposed"
)

// SyncRunner drives a workspace's file-watch/debounce/single-flight
// sync loop.
type SyncRunner interface {
	// Run blocks until the context is cancelled or a fatal error
	// occurs. A clean shutdown returns nil.
	Run(ctx context.Context) error

	// Refresh re-reads the remote record and resets the expected
	// version, clearing a pending conflict signal.
	Refresh(ctx context.Context) error

	// Status returns a snapshot of the loop state.
	Status() SyncStatus
}

// SyncStatus is a point-in-time snapshot of the loop.
type SyncStatus struct {
	State SyncState

	// ExpectedVersion is the OCC token the next update will carry.
	ExpectedVersion int64

	// LastSyncAt is when the last successful update finished.
	LastSyncAt time.Time

	// LastError is the last classified, user-facing error line.
	LastError string

	// Synced counts successful effective updates.
	Synced int

	// NoOps counts edits skipped or acknowledged as no-changes.
	NoOps int

	// Dropped counts edits dropped on transient failure.
	Dropped int

	// Conflicted is set after a version conflict until Refresh.
	Conflicted bool
}
