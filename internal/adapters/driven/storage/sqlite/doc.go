// Package sqlite provides the SQLite-backed record and event stores
// used by the reference remote server (`designsync serve`). The
// database runs in WAL mode with embedded migrations.
package sqlite
