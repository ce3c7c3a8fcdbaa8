package cached

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"admin-panel-api/internal/adapter/cache"
	domain "admin-panel-api/internal/domain/user"
	"admin-panel-api/internal/usecase/user"
)

// CachedUserRepository implements user.Repository the same way
// CachedProductRepository does for products: cache-aside entity reads,
// generation-scoped list pages, single-flight deduplication of identical
// reads, write-through invalidation.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository wraps dbRepo. A nil cache turns caching off but
// keeps the in-flight deduplication.
func NewCachedUserRepository(dbRepo user.Repository, userCache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{dbRepo: dbRepo, cache: userCache, log: log}
}

// userListFlightKey keys one list request for deduplication.
func userListFlightKey(f domain.Filter) string {
	return fmt.Sprintf("users:list:%s:%s:%s:%d:%d", strings.ToLower(f.Query), f.Role, f.Status, f.Page, f.Limit)
}

func (r *CachedUserRepository) probe(ctx context.Context, id int64) *domain.User {
	if r.cache == nil {
		return nil
	}
	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("user cache read failed, using backend", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return u
}

func (r *CachedUserRepository) store(ctx context.Context, u *domain.User) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, u); err != nil {
		r.log.Warn("user cache write failed", zap.Int64("id", u.ID), zap.Error(err))
	}
}

func (r *CachedUserRepository) dropEntity(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("user cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
}

func (r *CachedUserRepository) dropLists(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateLists(ctx); err != nil {
		r.log.Warn("user list invalidation failed", zap.Error(err))
	}
}

// Create inserts through the backend and orphans cached list pages.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	id, err := r.dbRepo.Create(ctx, u)
	if err != nil {
		return 0, err
	}
	r.dropLists(ctx)
	return id, nil
}

// GetByID serves the entity from cache when it can; concurrent misses for
// the same ID share one backend read.
func (r *CachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u := r.probe(ctx, id); u != nil {
		return u, nil
	}

	result, err, _ := r.group.Do(fmt.Sprintf("user:%d", id), func() (any, error) {
		// A flight member queued behind the leader finds the cache warm.
		if u := r.probe(ctx, id); u != nil {
			return u, nil
		}

		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.store(ctx, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// GetByEmail always hits the backend. Login and uniqueness checks need an
// authoritative answer, so email lookups are never cached.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// Update writes through to the backend, then drops the cached entity and
// orphans cached list pages.
func (r *CachedUserRepository) Update(ctx context.Context, u *domain.User) (int64, error) {
	id, err := r.dbRepo.Update(ctx, u)
	if err != nil {
		return 0, err
	}
	r.dropEntity(ctx, u.ID)
	r.dropLists(ctx)
	return id, nil
}

// Delete removes through the backend, then drops the cached entity and
// orphans cached list pages.
func (r *CachedUserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	deletedID, err := r.dbRepo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	r.dropEntity(ctx, id)
	r.dropLists(ctx)
	return deletedID, nil
}

// List serves one page of users, repeating the same filter from cache until
// a write bumps the generation or the TTL runs out. Concurrent misses for
// the same filter share one backend read.
func (r *CachedUserRepository) List(ctx context.Context, f domain.Filter) ([]domain.User, int64, error) {
	if l := r.probeList(ctx, f); l != nil {
		return l.Items, l.Total, nil
	}

	result, err, _ := r.group.Do(userListFlightKey(f), func() (any, error) {
		if l := r.probeList(ctx, f); l != nil {
			return l, nil
		}

		items, total, err := r.dbRepo.List(ctx, f)
		if err != nil {
			return nil, err
		}

		list := &cache.UserList{Items: items, Total: total}
		if r.cache != nil {
			if err := r.cache.SetList(ctx, f, list); err != nil {
				r.log.Warn("user list cache write failed", zap.Error(err))
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, 0, err
	}

	list := result.(*cache.UserList)
	return list.Items, list.Total, nil
}

func (r *CachedUserRepository) probeList(ctx context.Context, f domain.Filter) *cache.UserList {
	if r.cache == nil {
		return nil
	}
	l, err := r.cache.GetList(ctx, f)
	if err != nil {
		r.log.Warn("user list cache read failed, using backend", zap.Error(err))
		return nil
	}
	return l
}
