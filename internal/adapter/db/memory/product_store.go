package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"admin-panel-api/internal/domain/product"
	pkgerrors "admin-panel-api/pkg/errors"
	"admin-panel-api/pkg/security"
)

// ProductStore is an in-memory product repository with simulated latency.
type ProductStore struct {
	mu      sync.RWMutex
	items   map[int64]product.Product
	nextID  int64
	latency time.Duration
	log     *zap.Logger
}

// NewProductStore creates an empty store. Every operation sleeps for latency
// before touching state, mimicking a remote backend.
func NewProductStore(latency time.Duration, log *zap.Logger) *ProductStore {
	return &ProductStore{
		items:   make(map[int64]product.Product),
		nextID:  1,
		latency: latency,
		log:     log,
	}
}

// Seed loads the given products, assigning sequential IDs to entries that
// have none. Existing state is kept; Seed is meant for boot time.
func (s *ProductStore) Seed(items []product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, p := range items {
		if p.ID == 0 {
			p.ID = s.nextID
		}
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		s.items[p.ID] = p
	}

	s.log.Info("product store seeded", zap.Int("count", len(items)))
}

// Create inserts a new product and returns its assigned ID.
func (s *ProductStore) Create(ctx context.Context, p *product.Product) (int64, error) {
	if p == nil {
		return 0, errors.New("product cannot be nil")
	}
	if err := wait(ctx, s.latency); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.SKU == p.SKU {
			return 0, pkgerrors.NewAlreadyExistsError("product", "sku already exists")
		}
	}

	now := time.Now()
	stored := *p
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.items[stored.ID] = stored

	s.log.Info("product created in store", zap.Int64("id", stored.ID))
	return stored.ID, nil
}

// Update replaces a stored product by ID.
func (s *ProductStore) Update(ctx context.Context, p *product.Product) (int64, error) {
	if p == nil {
		return 0, errors.New("product cannot be nil")
	}
	if err := wait(ctx, s.latency); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[p.ID]
	if !ok {
		s.log.Warn("product not found for update", zap.Int64("id", p.ID))
		return 0, pkgerrors.NewNotFoundError("product", fmt.Sprintf("product not found: id=%d", p.ID))
	}

	for _, other := range s.items {
		if other.ID != p.ID && other.SKU == p.SKU {
			return 0, pkgerrors.NewAlreadyExistsError("product", "sku already exists")
		}
	}

	stored := *p
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	s.items[stored.ID] = stored

	s.log.Info("product updated in store", zap.Int64("id", stored.ID))
	return stored.ID, nil
}

// Delete removes a product by ID.
func (s *ProductStore) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, pkgerrors.NewValidationError("id", "invalid product id")
	}
	if err := wait(ctx, s.latency); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		s.log.Warn("product not found for delete", zap.Int64("id", id))
		return 0, pkgerrors.NewNotFoundError("product", fmt.Sprintf("product not found: id=%d", id))
	}
	delete(s.items, id)

	s.log.Info("product deleted from store", zap.Int64("id", id))
	return id, nil
}

// GetByID returns a copy of the product with the given ID.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.items[id]
	if !ok {
		s.log.Warn("product not found", zap.Int64("id", id))
		return nil, pkgerrors.NewNotFoundError("product", fmt.Sprintf("product not found: id=%d", id))
	}
	return &p, nil
}

// GetBySKU returns the product with the given SKU, or (nil, nil) when absent.
func (s *ProductStore) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.items {
		if p.SKU == sku {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// List returns a page of products matching the filter plus the total count.
// Results are ordered by ID to match the database repositories.
func (s *ProductStore) List(ctx context.Context, f product.Filter) ([]product.Product, int64, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, 0, err
	}

	var query string
	if f.Query != "" {
		vetted, err := security.ValidateSearchQuery(f.Query)
		if err != nil {
			s.log.Warn("rejected product search query", zap.String("query", f.Query), zap.Error(err))
			return nil, 0, pkgerrors.NewValidationError("query", err.Error())
		}
		query = strings.ToLower(vetted)
	}

	s.mu.RLock()
	matched := make([]product.Product, 0, len(s.items))
	for _, p := range s.items {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.SKU), query) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start < 0 || start >= total {
		return []product.Product{}, total, nil
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}
