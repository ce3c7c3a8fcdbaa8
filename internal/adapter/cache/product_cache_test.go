package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "admin-panel-api/internal/domain/product"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func newProductCache(t *testing.T, client *redis.Client) ProductCache {
	t.Helper()
	return NewRedisProductCache(client, 5*time.Minute, time.Minute, zaptest.NewLogger(t))
}

// ==================== ENTITY CACHE TESTS ====================

func TestRedisProductCache_SetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := newProductCache(t, client)

	p := &domain.Product{
		ID:         1,
		SKU:        "KB-MECH-87",
		Name:       "Mechanical Keyboard",
		PriceCents: 12900,
		Status:     domain.StatusActive,
	}

	err := cache.Set(context.Background(), p)
	require.NoError(t, err)

	// stored under the expected key
	data, err := client.Get(context.Background(), "product:1").Bytes()
	require.NoError(t, err)

	var raw domain.Product
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, p.SKU, raw.SKU)

	cached, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, p.ID, cached.ID)
	assert.Equal(t, p.Name, cached.Name)
	assert.Equal(t, p.PriceCents, cached.PriceCents)
	assert.Equal(t, p.Status, cached.Status)
}

func TestRedisProductCache_Set_Nil(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := newProductCache(t, client)

	err := cache.Set(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil product")
}

func TestRedisProductCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := newProductCache(t, client)

	cached, err := cache.Get(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisProductCache_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := newProductCache(t, client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.Product{ID: 1, SKU: "KB-MECH-87", Name: "Mechanical Keyboard"}))
	require.NoError(t, cache.Delete(ctx, 1))

	cached, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

// ==================== LIST CACHE TESTS ====================

func TestRedisProductCache_ListRoundTrip(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := newProductCache(t, client)
	ctx := context.Background()

	filter := domain.Filter{Query: "Keyboard", Status: domain.StatusActive, Page: 1, Limit: 10}
	list := &ProductList{
		Items: []domain.Product{
			{ID: 1, SKU: "KB-MECH-87", Name: "Mechanical Keyboard", Status: domain.StatusActive},
			{ID: 5, SKU: "KB-MECH-61", Name: "Compact Keyboard", Status: domain.StatusActive},
		},
		Total: 2,
	}

	require.NoError(t, cache.SetList(ctx, filter, list))

	// list pages live under the generation-scoped key, query lowercased
	exists := client.Exists(ctx, "products:g0:list:keyboard:active:1:10").Val()
	assert.Equal(t, int64(1), exists)

	cached, err := cache.GetList(ctx, filter)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, int64(2), cached.Total)
	require.Len(t, cached.Items, 2)
	assert.Equal(t, "KB-MECH-87", cached.Items[0].SKU)
}

func TestRedisProductCache_ListMissOnDifferentFilter(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := newProductCache(t, client)
	ctx := context.Background()

	filter := domain.Filter{Page: 1, Limit: 10}
	require.NoError(t, cache.SetList(ctx, filter, &ProductList{Total: 0}))

	cached, err := cache.GetList(ctx, domain.Filter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Nil(t, cached)

	cached, err = cache.GetList(ctx, domain.Filter{Status: domain.StatusDraft, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisProductCache_InvalidateLists(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := newProductCache(t, client)
	ctx := context.Background()

	filter := domain.Filter{Page: 1, Limit: 10}
	require.NoError(t, cache.SetList(ctx, filter, &ProductList{Total: 5}))

	// the page is served until the generation moves
	cached, err := cache.GetList(ctx, filter)
	require.NoError(t, err)
	require.NotNil(t, cached)

	require.NoError(t, cache.InvalidateLists(ctx))

	// same filter now misses even though the old key still exists
	cached, err = cache.GetList(ctx, filter)
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.True(t, mr.Exists("products:g0:list:::1:10"))

	// pages written after the bump land in the new generation
	require.NoError(t, cache.SetList(ctx, filter, &ProductList{Total: 6}))
	assert.True(t, mr.Exists("products:g1:list:::1:10"))

	cached, err = cache.GetList(ctx, filter)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, int64(6), cached.Total)
}

func TestRedisProductCache_TTLs(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := newProductCache(t, client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.Product{ID: 1, SKU: "KB-MECH-87", Name: "Mechanical Keyboard"}))
	require.NoError(t, cache.SetList(ctx, domain.Filter{Page: 1, Limit: 10}, &ProductList{Total: 1}))

	// list pages expire first
	mr.FastForward(90 * time.Second)

	cached, err := cache.GetList(ctx, domain.Filter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Nil(t, cached)

	p, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)

	// then the entity, while the generation counter never expires
	require.NoError(t, cache.InvalidateLists(ctx))
	mr.FastForward(5 * time.Minute)

	p, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.True(t, mr.Exists(productGenKey))
}
