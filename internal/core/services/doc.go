// Package services implements the core business logic for Designsync.
//
// Services orchestrate domain types through the driven ports:
//
//   - MutationService: the versioned mutation handler (OCC update,
//     undo/redo with branch discard, patch recording)
//   - HistoryService: the local append-only version log
//   - SyncLoop: the file-watch/debounce/single-flight sync actor
//
// Services depend only on domain and ports, never on adapters.
package services
