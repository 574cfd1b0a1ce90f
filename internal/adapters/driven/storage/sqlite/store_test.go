package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string) domain.RemoteRecord {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.RemoteRecord{
		ID:              id,
		Name:            "demo",
		Data:            map[string]any{"name": "v1", "layers": []any{"a"}},
		BaseData:        map[string]any{"name": "v0"},
		Version:         2,
		EventVersion:    1,
		MaxEventVersion: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestStore_RecordRoundTrip(t *testing.T) {
	store := newTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	record := testRecord("ws-1")
	require.NoError(t, records.Create(ctx, record))

	got, err := records.Get(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, record.Name, got.Name)
	assert.Equal(t, record.Version, got.Version)
	assert.Equal(t, record.EventVersion, got.EventVersion)
	assert.Equal(t, record.MaxEventVersion, got.MaxEventVersion)
	assert.True(t, domain.DocumentsEqual(record.Data, got.Data))
	assert.True(t, domain.DocumentsEqual(record.BaseData, got.BaseData))
	assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.RecordStore().Get(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CreateDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStore().Create(ctx, testRecord("ws-1")))
	err := store.RecordStore().Create(ctx, testRecord("ws-1"))

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestStore_SaveAdvancesVersion(t *testing.T) {
	store := newTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	record := testRecord("ws-1")
	require.NoError(t, records.Create(ctx, record))

	record.Data = map[string]any{"name": "v2"}
	record.Version = 3
	record.EventVersion = 2
	record.MaxEventVersion = 2
	record.UpdatedAt = record.UpdatedAt.Add(time.Minute)
	require.NoError(t, records.Save(ctx, record))

	got, err := records.Get(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.True(t, domain.DocumentsEqual(map[string]any{"name": "v2"}, got.Data))
}

func TestStore_SaveMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.RecordStore().Save(context.Background(), testRecord("nope"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListOrdersByCreation(t *testing.T) {
	store := newTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	first := testRecord("ws-1")
	second := testRecord("ws-2")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, records.Create(ctx, second))
	require.NoError(t, records.Create(ctx, first))

	list, err := records.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ws-1", list[0].ID)
	assert.Equal(t, "ws-2", list[1].ID)
}

func TestStore_EventTimeline(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.RecordStore().Create(ctx, testRecord("ws-1")))
	events := store.EventStore()

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for v := int64(1); v <= 3; v++ {
		require.NoError(t, events.Append(ctx, "ws-1", domain.PatchEvent{
			Version:   v,
			Timestamp: ts.Add(time.Duration(v) * time.Second),
			Patches: []domain.PatchOp{
				{Op: domain.OpReplace, Path: []string{"name"}, Value: v},
			},
		}))
	}

	list, err := events.List(ctx, "ws-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(1), list[0].Version)
	assert.Equal(t, int64(3), list[2].Version)

	event, err := events.Get(ctx, "ws-1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, event.Patches[0].Path)

	_, err = events.Get(ctx, "ws-1", 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DiscardAfter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.RecordStore().Create(ctx, testRecord("ws-1")))
	events := store.EventStore()

	for v := int64(1); v <= 5; v++ {
		require.NoError(t, events.Append(ctx, "ws-1", domain.PatchEvent{Version: v, Timestamp: time.Now()}))
	}

	require.NoError(t, events.DiscardAfter(ctx, "ws-1", 2))

	list, err := events.List(ctx, "ws-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[1].Version)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.RecordStore().Create(ctx, testRecord("ws-1")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.RecordStore().Get(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Name)
}
