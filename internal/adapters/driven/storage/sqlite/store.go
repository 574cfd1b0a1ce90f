package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/designsync-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed storage. Port interfaces are exposed
// through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.designsync/data/workspaces.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".designsync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "workspaces.db")

	// WAL mode for concurrent readers alongside the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// EventStore returns an EventStore interface backed by this store.
func (s *Store) EventStore() driven.EventStore {
	return &eventStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Get retrieves a record by ID.
func (s *recordStore) Get(ctx context.Context, id string) (*domain.RemoteRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, data, base_data, version, event_version, max_event_version, created_at, updated_at
		FROM records WHERE id = ?
	`, id)
	return scanRecord(row)
}

// List returns all records ordered by creation time.
func (s *recordStore) List(ctx context.Context) ([]domain.RemoteRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, data, base_data, version, event_version, max_event_version, created_at, updated_at
		FROM records ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.RemoteRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// Create stores a new record.
func (s *recordStore) Create(ctx context.Context, record domain.RemoteRecord) error {
	dataJSON, baseJSON, err := encodeRecordData(record)
	if err != nil {
		return err
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO records (id, name, data, base_data, version, event_version, max_event_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Name, dataJSON, baseJSON,
		record.Version, record.EventVersion, record.MaxEventVersion,
		record.CreatedAt.UTC(), record.UpdatedAt.UTC())

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// Save updates an existing record.
func (s *recordStore) Save(ctx context.Context, record domain.RemoteRecord) error {
	dataJSON, baseJSON, err := encodeRecordData(record)
	if err != nil {
		return err
	}

	result, err := s.store.db.ExecContext(ctx, `
		UPDATE records
		SET name = ?, data = ?, base_data = ?, version = ?, event_version = ?, max_event_version = ?, updated_at = ?
		WHERE id = ?
	`, record.Name, dataJSON, baseJSON,
		record.Version, record.EventVersion, record.MaxEventVersion,
		record.UpdatedAt.UTC(), record.ID)
	if err != nil {
		return fmt.Errorf("updating record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// encodeRecordData marshals the document columns.
func encodeRecordData(record domain.RemoteRecord) (string, string, error) {
	dataJSON, err := json.Marshal(record.Data)
	if err != nil {
		return "", "", fmt.Errorf("marshalling data: %w", err)
	}
	baseJSON, err := json.Marshal(record.BaseData)
	if err != nil {
		return "", "", fmt.Errorf("marshalling base data: %w", err)
	}
	return string(dataJSON), string(baseJSON), nil
}

// scanner covers sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one record row.
func scanRecord(row scanner) (*domain.RemoteRecord, error) {
	var record domain.RemoteRecord
	var dataJSON, baseJSON string
	var createdAt, updatedAt time.Time

	err := row.Scan(&record.ID, &record.Name, &dataJSON, &baseJSON,
		&record.Version, &record.EventVersion, &record.MaxEventVersion,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	if err := json.Unmarshal([]byte(dataJSON), &record.Data); err != nil {
		return nil, fmt.Errorf("unmarshaling data: %w", err)
	}
	if err := json.Unmarshal([]byte(baseJSON), &record.BaseData); err != nil {
		return nil, fmt.Errorf("unmarshaling base data: %w", err)
	}
	record.CreatedAt = createdAt.UTC()
	record.UpdatedAt = updatedAt.UTC()
	return &record, nil
}

// ==================== Event Store ====================

// eventStore implements driven.EventStore.
type eventStore struct {
	store *Store
}

var _ driven.EventStore = (*eventStore)(nil)

// Append stores a new event for the workspace.
func (s *eventStore) Append(ctx context.Context, workspaceID string, event domain.PatchEvent) error {
	patchesJSON, err := json.Marshal(event.Patches)
	if err != nil {
		return fmt.Errorf("marshalling patches: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO events (workspace_id, version, timestamp, patches)
		VALUES (?, ?, ?, ?)
	`, workspaceID, event.Version, event.Timestamp.UTC(), string(patchesJSON))
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// List returns all events for the workspace, ascending by version.
func (s *eventStore) List(ctx context.Context, workspaceID string) ([]domain.PatchEvent, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT version, timestamp, patches
		FROM events WHERE workspace_id = ? ORDER BY version ASC
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []domain.PatchEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// Get retrieves a single event by version.
func (s *eventStore) Get(ctx context.Context, workspaceID string, version int64) (*domain.PatchEvent, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT version, timestamp, patches
		FROM events WHERE workspace_id = ? AND version = ?
	`, workspaceID, version)
	return scanEvent(row)
}

// DiscardAfter deletes all events with version > afterVersion.
func (s *eventStore) DiscardAfter(ctx context.Context, workspaceID string, afterVersion int64) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM events WHERE workspace_id = ? AND version > ?
	`, workspaceID, afterVersion)
	if err != nil {
		return fmt.Errorf("discarding events: %w", err)
	}
	return nil
}

// scanEvent reads one event row.
func scanEvent(row scanner) (*domain.PatchEvent, error) {
	var event domain.PatchEvent
	var patchesJSON string
	var timestamp time.Time

	if err := row.Scan(&event.Version, &timestamp, &patchesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	if err := json.Unmarshal([]byte(patchesJSON), &event.Patches); err != nil {
		return nil, fmt.Errorf("unmarshaling patches: %w", err)
	}
	event.Timestamp = timestamp.UTC()
	return &event, nil
}
