package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

func TestRecordStore_CreateAndGet(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	record := domain.RemoteRecord{ID: "ws-1", Name: "demo", Version: 1}
	require.NoError(t, store.Create(ctx, record))

	got, err := store.Get(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Name)
}

func TestRecordStore_GetMissing(t *testing.T) {
	store := NewRecordStore()

	_, err := store.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_CreateDuplicate(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.RemoteRecord{ID: "ws-1"}))
	err := store.Create(ctx, domain.RemoteRecord{ID: "ws-1"})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRecordStore_SaveMissing(t *testing.T) {
	store := NewRecordStore()

	err := store.Save(context.Background(), domain.RemoteRecord{ID: "nope"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_ListOrdersByCreation(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, domain.RemoteRecord{ID: "ws-2", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Create(ctx, domain.RemoteRecord{ID: "ws-1", CreatedAt: base}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ws-1", list[0].ID)
	assert.Equal(t, "ws-2", list[1].ID)
}

func TestRecordStore_GetReturnsCopy(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, domain.RemoteRecord{ID: "ws-1", Version: 1}))

	got, err := store.Get(ctx, "ws-1")
	require.NoError(t, err)
	got.Version = 99

	again, err := store.Get(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.Version)
}
