package driven

import "github.com/custodia-labs/designsync-cli/internal/core/domain"

// JournalStore persists the local append-only journal
// (.designsync/events.jsonl).
type JournalStore interface {
	// Load reads all entries from disk. A missing or truncated file is
	// not an error: it degrades to an empty (or shortened) history.
	Load() ([]domain.LocalLogEntry, error)

	// Append writes one entry. Write failures must be returned to the
	// caller; history integrity is never silently dropped.
	Append(entry domain.LocalLogEntry) error

	// Rewrite replaces the journal contents atomically.
	// Used by pruning; checkpoints always survive a rewrite.
	Rewrite(entries []domain.LocalLogEntry) error

	// Path returns the journal file path.
	Path() string
}
