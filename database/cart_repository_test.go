package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/storefront/database"
	"github.com/yashrajoria/storefront/models"
)

func sampleItems() []models.CartItem {
	return []models.CartItem{
		{ID: "A", Name: "Watch", Price: decimal.NewFromInt(10), Quantity: 2},
		{ID: "B", Name: "Mouse", Price: decimal.RequireFromString("5.50"), Quantity: 1},
	}
}

func newRedisRepo(t *testing.T) (*database.RedisCartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := database.NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return database.NewRedisCartRepository(client, time.Hour), mr
}

func TestRedisCart_LoadMissingIsEmpty(t *testing.T) {
	repo, _ := newRedisRepo(t)

	items, err := repo.Load(context.Background(), database.CartKey("sid-1"))

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRedisCart_SaveLoadDelete(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()
	key := database.CartKey("sid-1")

	require.NoError(t, repo.Save(ctx, key, sampleItems()))
	assert.True(t, mr.Exists("cartItems:sid-1"))
	assert.Equal(t, time.Hour, mr.TTL(key))

	items, err := repo.Load(ctx, key)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, decimal.RequireFromString("5.50").Equal(items[1].Price))

	require.NoError(t, repo.Delete(ctx, key))
	assert.False(t, mr.Exists(key))
}

func TestRedisCart_CorruptBlob(t *testing.T) {
	repo, mr := newRedisRepo(t)
	require.NoError(t, mr.Set(database.CartKey("sid-1"), "not json"))

	_, err := repo.Load(context.Background(), database.CartKey("sid-1"))
	assert.Error(t, err)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := database.NewRedisClient(context.Background(), "://nope")
	assert.Error(t, err)
}

func TestMemoryCart_RoundTrip(t *testing.T) {
	repo := database.NewMemoryCartRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "k", sampleItems()))
	items, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, repo.Delete(ctx, "k"))
	items, err = repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, items)
}
