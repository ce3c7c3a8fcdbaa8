package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "admin-panel-api/internal/domain/product"
)

// productGenKey is the generation counter for product list pages. Bumping it
// orphans every cached page at once; orphans age out through the list TTL.
const productGenKey = "products:gen"

// ProductList is the cached representation of one list page.
type ProductList struct {
	Items []domain.Product `json:"items"`
	Total int64            `json:"total"`
}

// ProductCache defines the interface for product caching operations.
type ProductCache interface {
	// Get retrieves a product from cache by ID.
	// Returns nil if the product is not cached.
	Get(ctx context.Context, id int64) (*domain.Product, error)

	// Set stores a product in cache with the entity TTL.
	Set(ctx context.Context, p *domain.Product) error

	// Delete removes a product from cache by ID.
	Delete(ctx context.Context, id int64) error

	// GetList retrieves a cached list page for the filter.
	// Returns nil if the page is not cached.
	GetList(ctx context.Context, f domain.Filter) (*ProductList, error)

	// SetList stores a list page for the filter with the list TTL.
	SetList(ctx context.Context, f domain.Filter, list *ProductList) error

	// InvalidateLists drops all cached list pages by bumping the generation.
	InvalidateLists(ctx context.Context) error
}

// RedisProductCache implements ProductCache using Redis as the backing store.
type RedisProductCache struct {
	client    *redis.Client
	entityTTL time.Duration
	listTTL   time.Duration
	log       *zap.Logger
}

// NewRedisProductCache creates a new Redis-backed product cache.
func NewRedisProductCache(client *redis.Client, entityTTL, listTTL time.Duration, log *zap.Logger) ProductCache {
	return &RedisProductCache{
		client:    client,
		entityTTL: entityTTL,
		listTTL:   listTTL,
		log:       log,
	}
}

// cacheKey generates a Redis key for a product ID.
func (c *RedisProductCache) cacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// generation reads the current list generation, treating a missing counter
// as generation zero.
func (c *RedisProductCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, productGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// listKey generates a Redis key for one list page under the given generation.
// The query is lowercased because the search itself is case-insensitive.
func (c *RedisProductCache) listKey(gen int64, f domain.Filter) string {
	return fmt.Sprintf("products:g%d:list:%s:%s:%d:%d",
		gen, strings.ToLower(f.Query), f.Status, f.Page, f.Limit)
}

// Get retrieves a product from Redis cache.
func (c *RedisProductCache) Get(ctx context.Context, id int64) (*domain.Product, error) {
	key := c.cacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.log.Debug("cache miss", zap.Int64("product_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.Error("failed to unmarshal cached product", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.Int64("product_id", id))
	return &p, nil
}

// Set stores a product in Redis cache with the entity TTL.
func (c *RedisProductCache) Set(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("cannot cache nil product")
	}

	key := c.cacheKey(p.ID)

	data, err := json.Marshal(p)
	if err != nil {
		c.log.Error("failed to marshal product for cache", zap.Int64("product_id", p.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.entityTTL).Err(); err != nil {
		c.log.Error("failed to set cache", zap.Int64("product_id", p.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached product", zap.Int64("product_id", p.ID), zap.Duration("ttl", c.entityTTL))
	return nil
}

// Delete removes a product from Redis cache.
func (c *RedisProductCache) Delete(ctx context.Context, id int64) error {
	key := c.cacheKey(id)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int64("product_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Int64("product_id", id))
	return nil
}

// GetList retrieves a cached product list page from Redis.
func (c *RedisProductCache) GetList(ctx context.Context, f domain.Filter) (*ProductList, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Error("failed to read product list generation", zap.Error(err))
		return nil, err
	}

	key := c.listKey(gen, f)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.log.Debug("list cache miss", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get list from cache", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	var list ProductList
	if err := json.Unmarshal(data, &list); err != nil {
		c.log.Error("failed to unmarshal cached product list", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	c.log.Debug("list cache hit", zap.String("key", key))
	return &list, nil
}

// SetList stores a product list page in Redis with the list TTL.
func (c *RedisProductCache) SetList(ctx context.Context, f domain.Filter, list *ProductList) error {
	if list == nil {
		return fmt.Errorf("cannot cache nil product list")
	}

	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Error("failed to read product list generation", zap.Error(err))
		return err
	}

	key := c.listKey(gen, f)

	data, err := json.Marshal(list)
	if err != nil {
		c.log.Error("failed to marshal product list for cache", zap.String("key", key), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.listTTL).Err(); err != nil {
		c.log.Error("failed to set list cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.log.Debug("cached product list", zap.String("key", key), zap.Duration("ttl", c.listTTL))
	return nil
}

// InvalidateLists bumps the product list generation. The counter carries no
// TTL and only moves forward.
func (c *RedisProductCache) InvalidateLists(ctx context.Context) error {
	if err := c.client.Incr(ctx, productGenKey).Err(); err != nil {
		c.log.Error("failed to bump product list generation", zap.Error(err))
		return err
	}

	c.log.Debug("invalidated product list cache")
	return nil
}
