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

	"admin-panel-api/internal/domain/user"
	pkgerrors "admin-panel-api/pkg/errors"
	"admin-panel-api/pkg/security"
)

// UserStore is an in-memory user repository with simulated latency.
type UserStore struct {
	mu      sync.RWMutex
	items   map[int64]user.User
	nextID  int64
	latency time.Duration
	log     *zap.Logger
}

// NewUserStore creates an empty store. Every operation sleeps for latency
// before touching state, mimicking a remote backend.
func NewUserStore(latency time.Duration, log *zap.Logger) *UserStore {
	return &UserStore{
		items:   make(map[int64]user.User),
		nextID:  1,
		latency: latency,
		log:     log,
	}
}

// Seed loads the given users, assigning sequential IDs to entries that have
// none. Existing state is kept; Seed is meant for boot time.
func (s *UserStore) Seed(items []user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, u := range items {
		if u.ID == 0 {
			u.ID = s.nextID
		}
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = now
		}
		if u.UpdatedAt.IsZero() {
			u.UpdatedAt = u.CreatedAt
		}
		s.items[u.ID] = u
	}

	s.log.Info("user store seeded", zap.Int("count", len(items)))
}

// Create inserts a new user and returns the assigned ID.
func (s *UserStore) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}
	if err := wait(ctx, s.latency); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Email == u.Email {
			return 0, pkgerrors.NewAlreadyExistsError("user", "email already exists")
		}
	}

	now := time.Now()
	stored := *u
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.items[stored.ID] = stored

	s.log.Info("user created in store", zap.Int64("id", stored.ID))
	return stored.ID, nil
}

// Update replaces a stored user by ID.
func (s *UserStore) Update(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}
	if err := wait(ctx, s.latency); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[u.ID]
	if !ok {
		s.log.Warn("user not found for update", zap.Int64("id", u.ID))
		return 0, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", u.ID))
	}

	for _, other := range s.items {
		if other.ID != u.ID && other.Email == u.Email {
			return 0, pkgerrors.NewAlreadyExistsError("user", "email already exists")
		}
	}

	stored := *u
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	s.items[stored.ID] = stored

	s.log.Info("user updated in store", zap.Int64("id", stored.ID))
	return stored.ID, nil
}

// Delete removes a user by ID.
func (s *UserStore) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, pkgerrors.NewValidationError("id", "invalid user id")
	}
	if err := wait(ctx, s.latency); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		s.log.Warn("user not found for delete", zap.Int64("id", id))
		return 0, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}
	delete(s.items, id)

	s.log.Info("user deleted from store", zap.Int64("id", id))
	return id, nil
}

// GetByID returns a copy of the user with the given ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.items[id]
	if !ok {
		s.log.Warn("user not found", zap.Int64("id", id))
		return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}
	return &u, nil
}

// GetByEmail returns the user with the given email, or (nil, nil) when absent.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.items {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// List returns a page of users matching the filter plus the total count.
// Results are ordered by ID to match the database repositories.
func (s *UserStore) List(ctx context.Context, f user.Filter) ([]user.User, int64, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, 0, err
	}

	var query string
	if f.Query != "" {
		vetted, err := security.ValidateSearchQuery(f.Query)
		if err != nil {
			s.log.Warn("rejected user search query", zap.String("query", f.Query), zap.Error(err))
			return nil, 0, pkgerrors.NewValidationError("query", err.Error())
		}
		query = strings.ToLower(vetted)
	}

	s.mu.RLock()
	matched := make([]user.User, 0, len(s.items))
	for _, u := range s.items {
		if query != "" &&
			!strings.Contains(strings.ToLower(u.Name), query) &&
			!strings.Contains(strings.ToLower(u.Email), query) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		matched = append(matched, u)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start < 0 || start >= total {
		return []user.User{}, total, nil
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}
