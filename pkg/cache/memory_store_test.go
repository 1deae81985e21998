package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissingReturnsNil(t *testing.T) {
	store := NewMemoryStore()

	item, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestMemoryStore_PutAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Item{Key: "k", Value: []byte("v1")}, time.Minute))
	require.NoError(t, store.Put(ctx, Item{Key: "k", Value: []byte("v2")}, time.Minute))

	item, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, []byte("v2"), item.Value)
}

func TestMemoryStore_PutIfAbsentPreservesExisting(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.PutIfAbsent(ctx, Item{Key: "k", Value: []byte("first")}, time.Minute)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.PutIfAbsent(ctx, Item{Key: "k", Value: []byte("second")}, time.Minute)
	require.NoError(t, err)
	assert.False(t, created)

	item, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, []byte("first"), item.Value)
}

func TestMemoryStore_BatchGetOmitsMissing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Item{Key: "a", Value: []byte("1")}, time.Minute))
	require.NoError(t, store.Put(ctx, Item{Key: "c", Value: []byte("3")}, time.Minute))

	items, err := store.BatchGet(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Key)
	assert.Equal(t, "c", items[1].Key)
}

func TestMemoryStore_BatchPutOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Item{Key: "k", Value: []byte("old")}, time.Minute))
	require.NoError(t, store.BatchPut(ctx, []Item{{Key: "k", Value: []byte("new")}}, time.Minute))

	item, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, []byte("new"), item.Value)
}

func TestMemoryStore_Exists(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	found, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, Item{Key: "k", Value: []byte("v")}, time.Minute))

	found, err = store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
}
