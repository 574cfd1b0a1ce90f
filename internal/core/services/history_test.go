package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

// mockJournal implements driven.JournalStore for testing.
type mockJournal struct {
	mu        sync.Mutex
	entries   []domain.LocalLogEntry
	loadErr   error
	appendErr error
}

func (m *mockJournal) Load() ([]domain.LocalLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	entries := make([]domain.LocalLogEntry, len(m.entries))
	copy(entries, m.entries)
	return entries, nil
}

func (m *mockJournal) Append(entry domain.LocalLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockJournal) Rewrite(entries []domain.LocalLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make([]domain.LocalLogEntry, len(entries))
	copy(m.entries, entries)
	return nil
}

func (m *mockJournal) Path() string { return "mock/events.jsonl" }

// changePatches builds the forward/inverse pair for old -> new.
func changePatches(t *testing.T, oldDoc, newDoc domain.Document) (forward, inverse []domain.PatchOp) {
	t.Helper()
	forward = domain.Diff(oldDoc, newDoc)
	inverse, err := domain.Invert(forward, oldDoc)
	require.NoError(t, err)
	return forward, inverse
}

func TestHistoryService_UndoRedoCycle(t *testing.T) {
	v0 := doc(t, `{"name":"v0"}`)
	v1 := doc(t, `{"name":"v1"}`)
	v2 := doc(t, `{"name":"v2"}`)

	journal := &mockJournal{}
	svc := NewHistoryService(journal, v0)
	require.NoError(t, svc.Init())

	fwd1, inv1 := changePatches(t, v0, v1)
	require.NoError(t, svc.RecordChange(fwd1, inv1))
	// The service tracks state by applying patches itself on undo/redo;
	// after a recorded change the caller's document has moved to v1.
	svc.SetDocument(v1)

	fwd2, inv2 := changePatches(t, v1, v2)
	require.NoError(t, svc.RecordChange(fwd2, inv2))
	svc.SetDocument(v2)

	got, err := svc.Undo()
	require.NoError(t, err)
	assert.True(t, domain.DocumentsEqual(v1, got))

	got, err = svc.Undo()
	require.NoError(t, err)
	assert.True(t, domain.DocumentsEqual(v0, got))

	// Undo stack exhausted: nil, not an error.
	got, err = svc.Undo()
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.Redo()
	require.NoError(t, err)
	assert.True(t, domain.DocumentsEqual(v1, got))

	got, err = svc.Redo()
	require.NoError(t, err)
	assert.True(t, domain.DocumentsEqual(v2, got))

	got, err = svc.Redo()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHistoryService_NewChangeClearsRedo(t *testing.T) {
	v0 := doc(t, `{"name":"v0"}`)
	v1 := doc(t, `{"name":"v1"}`)

	svc := NewHistoryService(&mockJournal{}, v0)
	require.NoError(t, svc.Init())

	fwd, inv := changePatches(t, v0, v1)
	require.NoError(t, svc.RecordChange(fwd, inv))
	svc.SetDocument(v1)

	_, err := svc.Undo()
	require.NoError(t, err)

	// Branch: a new change after undo makes the redo unreachable.
	v1b := doc(t, `{"name":"v1b"}`)
	fwd2, inv2 := changePatches(t, v0, v1b)
	require.NoError(t, svc.RecordChange(fwd2, inv2))
	svc.SetDocument(v1b)

	got, err := svc.Redo()
	require.NoError(t, err)
	assert.Nil(t, got, "redo history must be discarded by a new change")
}

func TestHistoryService_InitRebuildsUndoStack(t *testing.T) {
	v0 := doc(t, `{"name":"v0"}`)
	v1 := doc(t, `{"name":"v1"}`)
	fwd, inv := changePatches(t, v0, v1)

	journal := &mockJournal{entries: []domain.LocalLogEntry{
		{V: 1, Patches: fwd, Inverse: inv},
		{V: 2, CheckpointName: "before-redesign"},
	}}

	svc := NewHistoryService(journal, v1)
	require.NoError(t, svc.Init())

	// The stored inverse is usable straight after a restart.
	got, err := svc.Undo()
	require.NoError(t, err)
	assert.True(t, domain.DocumentsEqual(v0, got))

	// Counter resumes past the highest stored v.
	require.NoError(t, svc.Checkpoint("after-restart"))
	entries := svc.Entries()
	assert.Equal(t, int64(3), entries[len(entries)-1].V)
}

func TestHistoryService_AppendFailurePropagates(t *testing.T) {
	diskErr := errors.New("disk full")
	svc := NewHistoryService(&mockJournal{appendErr: diskErr}, doc(t, `{}`))
	require.NoError(t, svc.Init())

	err := svc.RecordChange([]domain.PatchOp{{Op: domain.OpAdd, Path: []string{"a"}, Value: 1.0}}, nil)
	assert.ErrorIs(t, err, diskErr)

	// A failed append must not half-record the change.
	_, undoErr := svc.Undo()
	require.NoError(t, undoErr)
	assert.Empty(t, svc.Entries())
}

func TestHistoryService_Checkpoint(t *testing.T) {
	svc := NewHistoryService(&mockJournal{}, doc(t, `{}`))
	require.NoError(t, svc.Init())

	require.NoError(t, svc.Checkpoint("launch"))
	err := svc.Checkpoint("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	entries := svc.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsCheckpoint())
	assert.Equal(t, "launch", entries[0].CheckpointName)
}

func TestHistoryService_PruneKeepsCheckpoints(t *testing.T) {
	v0 := doc(t, `{"n":0}`)
	svc := NewHistoryService(&mockJournal{}, v0)
	require.NoError(t, svc.Init())

	current := v0
	for i := 1; i <= 4; i++ {
		next := doc(t, `{"n":`+string(rune('0'+i))+`}`)
		fwd, inv := changePatches(t, current, next)
		require.NoError(t, svc.RecordChange(fwd, inv))
		if i == 2 {
			require.NoError(t, svc.Checkpoint("midway"))
		}
		current = next
	}

	require.NoError(t, svc.Prune(1))

	entries := svc.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsCheckpoint())
	assert.False(t, entries[1].IsCheckpoint())
	assert.Equal(t, int64(5), entries[1].V, "newest change survives")
}
