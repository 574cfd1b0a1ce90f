package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

func TestEventStore_AppendAndList(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	for v := int64(1); v <= 3; v++ {
		require.NoError(t, store.Append(ctx, "ws-1", domain.PatchEvent{Version: v, Timestamp: time.Now()}))
	}

	events, err := store.List(ctx, "ws-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, int64(1), events[0].Version)
	assert.Equal(t, int64(3), events[2].Version)
}

func TestEventStore_ListIsolatesWorkspaces(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "ws-1", domain.PatchEvent{Version: 1}))
	require.NoError(t, store.Append(ctx, "ws-2", domain.PatchEvent{Version: 1}))

	events, err := store.List(ctx, "ws-1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventStore_GetMissing(t *testing.T) {
	store := NewEventStore()

	_, err := store.Get(context.Background(), "ws-1", 7)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventStore_DiscardAfter(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	for v := int64(1); v <= 5; v++ {
		require.NoError(t, store.Append(ctx, "ws-1", domain.PatchEvent{Version: v}))
	}

	require.NoError(t, store.DiscardAfter(ctx, "ws-1", 3))

	events, err := store.List(ctx, "ws-1")
	require.NoError(t, err)
	require.Len(t, events, 3)

	_, err = store.Get(ctx, "ws-1", 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
