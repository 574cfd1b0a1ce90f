// Package domain defines the core business entities for Designsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The opaque JSON tree the user edits
//   - PatchOp: A structural add/remove/replace operation and the
//     diff/apply/invert engine over it
//   - RemoteRecord: The versioned document as the remote store holds it
//   - PatchEvent: One step in a record's patch timeline
//   - LocalLogEntry: One line of the local append-only journal
//   - Credentials: The user's access token
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
