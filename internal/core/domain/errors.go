package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrVersionConflict indicates an optimistic-concurrency failure:
	// the expected version no longer matches the stored version.
	// The caller must refresh from the remote; it is never auto-resolved.
	ErrVersionConflict = errors.New("version conflict")

	// ErrUnauthenticated indicates the remote rejected the credentials.
	// The user must log in again; retrying the same call is pointless.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrTokenExpired indicates the access token has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrAccessDenied indicates the token is valid but the workspace
	// is not accessible. Terminal for that workspace.
	ErrAccessDenied = errors.New("access denied")

	// ErrConfigMissing indicates no workspace configuration was found.
	// First-run condition: the user has not run `designsync init`.
	ErrConfigMissing = errors.New("workspace configuration missing")

	// ErrNotAuthenticated indicates no stored credentials exist.
	// First-run condition: the user has not run `designsync login`.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSyncDisposed indicates the sync loop has been shut down.
	ErrSyncDisposed = errors.New("sync loop disposed")
)

// PatchApplicationError indicates a patch could not be applied because
// its path does not exist on the target document. This is fatal: it
// means the history or the document is corrupted, and it must never
// be swallowed.
type PatchApplicationError struct {
	Op     PatchOpKind
	Path   []string
	Reason string
}

func (e *PatchApplicationError) Error() string {
	return fmt.Sprintf("cannot apply %s at /%s: %s", e.Op, strings.Join(e.Path, "/"), e.Reason)
}

// TransientError wraps a transport-level failure (connection refused,
// timeout, 5xx). The sync loop drops the edit and waits for the next
// file change; nothing else should treat it as fatal.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient network error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
