// Package cached layers redis caching and in-flight read deduplication over
// the persistent repositories.
package cached

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"admin-panel-api/internal/adapter/cache"
	domain "admin-panel-api/internal/domain/product"
	"admin-panel-api/internal/usecase/product"
)

// CachedProductRepository implements product.Repository on top of a backend
// repository: entity reads are cache-aside, list pages are cached per filter
// under a generation counter, and identical in-flight reads collapse into a
// single backend call. Writes reach the backend first, then drop the entity
// key and bump the list generation.
type CachedProductRepository struct {
	dbRepo product.Repository
	cache  cache.ProductCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedProductRepository wraps dbRepo. A nil cache turns caching off but
// keeps the in-flight deduplication.
func NewCachedProductRepository(dbRepo product.Repository, productCache cache.ProductCache, log *zap.Logger) product.Repository {
	return &CachedProductRepository{dbRepo: dbRepo, cache: productCache, log: log}
}

// productListFlightKey keys one list request for deduplication. It matches
// the cache key shape minus the generation, so identical concurrent requests
// share one backend call regardless of the current generation.
func productListFlightKey(f domain.Filter) string {
	return fmt.Sprintf("products:list:%s:%s:%d:%d", strings.ToLower(f.Query), f.Status, f.Page, f.Limit)
}

// probe reads the entity cache, treating a cache error as a miss.
func (r *CachedProductRepository) probe(ctx context.Context, id int64) *domain.Product {
	if r.cache == nil {
		return nil
	}
	p, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("product cache read failed, using backend", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return p
}

// store writes the entity to the cache, logging failures instead of
// surfacing them.
func (r *CachedProductRepository) store(ctx context.Context, p *domain.Product) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, p); err != nil {
		r.log.Warn("product cache write failed", zap.Int64("id", p.ID), zap.Error(err))
	}
}

// dropEntity removes one cached entity after a write.
func (r *CachedProductRepository) dropEntity(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("product cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
}

// dropLists orphans every cached list page after a write.
func (r *CachedProductRepository) dropLists(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateLists(ctx); err != nil {
		r.log.Warn("product list invalidation failed", zap.Error(err))
	}
}

// Create inserts through the backend and orphans cached list pages.
func (r *CachedProductRepository) Create(ctx context.Context, p *domain.Product) (int64, error) {
	id, err := r.dbRepo.Create(ctx, p)
	if err != nil {
		return 0, err
	}
	r.dropLists(ctx)
	return id, nil
}

// GetByID serves the entity from cache when it can; concurrent misses for
// the same ID share one backend read.
func (r *CachedProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if p := r.probe(ctx, id); p != nil {
		return p, nil
	}

	result, err, _ := r.group.Do(fmt.Sprintf("product:%d", id), func() (any, error) {
		// A flight member queued behind the leader finds the cache warm.
		if p := r.probe(ctx, id); p != nil {
			return p, nil
		}

		p, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.store(ctx, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.Product), nil
}

// GetBySKU always hits the backend. Uniqueness checks need an authoritative
// answer, so SKU lookups are never cached.
func (r *CachedProductRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.dbRepo.GetBySKU(ctx, sku)
}

// Update writes through to the backend, then drops the cached entity and
// orphans cached list pages.
func (r *CachedProductRepository) Update(ctx context.Context, p *domain.Product) (int64, error) {
	id, err := r.dbRepo.Update(ctx, p)
	if err != nil {
		return 0, err
	}
	r.dropEntity(ctx, p.ID)
	r.dropLists(ctx)
	return id, nil
}

// Delete removes through the backend, then drops the cached entity and
// orphans cached list pages.
func (r *CachedProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	deletedID, err := r.dbRepo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	r.dropEntity(ctx, id)
	r.dropLists(ctx)
	return deletedID, nil
}

// List serves one page of products, repeating the same filter from cache
// until a write bumps the generation or the TTL runs out. Concurrent misses
// for the same filter share one backend read.
func (r *CachedProductRepository) List(ctx context.Context, f domain.Filter) ([]domain.Product, int64, error) {
	if l := r.probeList(ctx, f); l != nil {
		return l.Items, l.Total, nil
	}

	result, err, _ := r.group.Do(productListFlightKey(f), func() (any, error) {
		if l := r.probeList(ctx, f); l != nil {
			return l, nil
		}

		items, total, err := r.dbRepo.List(ctx, f)
		if err != nil {
			return nil, err
		}

		list := &cache.ProductList{Items: items, Total: total}
		if r.cache != nil {
			if err := r.cache.SetList(ctx, f, list); err != nil {
				r.log.Warn("product list cache write failed", zap.Error(err))
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, 0, err
	}

	list := result.(*cache.ProductList)
	return list.Items, list.Total, nil
}

// probeList reads the list cache, treating a cache error as a miss.
func (r *CachedProductRepository) probeList(ctx context.Context, f domain.Filter) *cache.ProductList {
	if r.cache == nil {
		return nil
	}
	l, err := r.cache.GetList(ctx, f)
	if err != nil {
		r.log.Warn("product list cache read failed, using backend", zap.Error(err))
		return nil
	}
	return l
}
