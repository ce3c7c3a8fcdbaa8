package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "admin-panel-api/internal/domain/user"
)

// userGenKey is the generation counter for user list pages.
const userGenKey = "users:gen"

// UserList is the cached representation of one list page.
type UserList struct {
	Items []domain.User `json:"items"`
	Total int64         `json:"total"`
}

// UserCache defines the interface for user caching operations.
type UserCache interface {
	// Get retrieves a user from cache by ID.
	// Returns nil if the user is not cached.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// Set stores a user in cache with the entity TTL.
	Set(ctx context.Context, u *domain.User) error

	// Delete removes a user from cache by ID.
	Delete(ctx context.Context, id int64) error

	// GetList retrieves a cached list page for the filter.
	// Returns nil if the page is not cached.
	GetList(ctx context.Context, f domain.Filter) (*UserList, error)

	// SetList stores a list page for the filter with the list TTL.
	SetList(ctx context.Context, f domain.Filter, list *UserList) error

	// InvalidateLists drops all cached list pages by bumping the generation.
	InvalidateLists(ctx context.Context) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client    *redis.Client
	entityTTL time.Duration
	listTTL   time.Duration
	log       *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, entityTTL, listTTL time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{
		client:    client,
		entityTTL: entityTTL,
		listTTL:   listTTL,
		log:       log,
	}
}

// cacheKey generates a Redis key for a user ID.
func (c *RedisUserCache) cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// generation reads the current list generation, treating a missing counter
// as generation zero.
func (c *RedisUserCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, userGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// listKey generates a Redis key for one list page under the given generation.
func (c *RedisUserCache) listKey(gen int64, f domain.Filter) string {
	return fmt.Sprintf("users:g%d:list:%s:%s:%s:%d:%d",
		gen, strings.ToLower(f.Query), f.Role, f.Status, f.Page, f.Limit)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	key := c.cacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.log.Debug("cache miss", zap.Int64("user_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.Int64("user_id", id))
	return &u, nil
}

// Set stores a user in Redis cache with the entity TTL.
func (c *RedisUserCache) Set(ctx context.Context, u *domain.User) error {
	if u == nil {
		return fmt.Errorf("cannot cache nil user")
	}

	key := c.cacheKey(u.ID)

	data, err := json.Marshal(u)
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.Int64("user_id", u.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.entityTTL).Err(); err != nil {
		c.log.Error("failed to set cache", zap.Int64("user_id", u.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached user", zap.Int64("user_id", u.ID), zap.Duration("ttl", c.entityTTL))
	return nil
}

// Delete removes a user from Redis cache.
func (c *RedisUserCache) Delete(ctx context.Context, id int64) error {
	key := c.cacheKey(id)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int64("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Int64("user_id", id))
	return nil
}

// GetList retrieves a cached user list page from Redis.
func (c *RedisUserCache) GetList(ctx context.Context, f domain.Filter) (*UserList, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Error("failed to read user list generation", zap.Error(err))
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

	var list UserList
	if err := json.Unmarshal(data, &list); err != nil {
		c.log.Error("failed to unmarshal cached user list", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	c.log.Debug("list cache hit", zap.String("key", key))
	return &list, nil
}

// SetList stores a user list page in Redis with the list TTL.
func (c *RedisUserCache) SetList(ctx context.Context, f domain.Filter, list *UserList) error {
	if list == nil {
		return fmt.Errorf("cannot cache nil user list")
	}

	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Error("failed to read user list generation", zap.Error(err))
		return err
	}

	key := c.listKey(gen, f)

	data, err := json.Marshal(list)
	if err != nil {
		c.log.Error("failed to marshal user list for cache", zap.String("key", key), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.listTTL).Err(); err != nil {
		c.log.Error("failed to set list cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.log.Debug("cached user list", zap.String("key", key), zap.Duration("ttl", c.listTTL))
	return nil
}

// InvalidateLists bumps the user list generation. The counter carries no TTL
// and only moves forward.
func (c *RedisUserCache) InvalidateLists(ctx context.Context) error {
	if err := c.client.Incr(ctx, userGenKey).Err(); err != nil {
		c.log.Error("failed to bump user list generation", zap.Error(err))
		return err
	}

	c.log.Debug("invalidated user list cache")
	return nil
}
