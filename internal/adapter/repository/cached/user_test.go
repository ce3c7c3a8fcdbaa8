package cached

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"admin-panel-api/internal/adapter/cache"
	domain "admin-panel-api/internal/domain/user"
	pkgerrors "admin-panel-api/pkg/errors"
)

// stubUserRepo is a backend double that counts read traffic.
type stubUserRepo struct {
	delay      time.Duration
	getCalls   atomic.Int32
	listCalls  atomic.Int32
	emailCalls atomic.Int32

	mu     sync.RWMutex
	items  map[int64]domain.User
	nextID int64
}

func newStubUserRepo(items ...domain.User) *stubUserRepo {
	s := &stubUserRepo{items: make(map[int64]domain.User), nextID: 1}
	for _, u := range items {
		s.items[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *stubUserRepo) Create(ctx context.Context, u *domain.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *u
	stored.ID = s.nextID
	s.nextID++
	s.items[stored.ID] = stored
	return stored.ID, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.getCalls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}
	found := u
	return &found, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.emailCalls.Add(1)
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

func (s *stubUserRepo) Update(ctx context.Context, u *domain.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[u.ID] = *u
	return u.ID, nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return 0, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}
	delete(s.items, id)
	return id, nil
}

func (s *stubUserRepo) List(ctx context.Context, f domain.Filter) ([]domain.User, int64, error) {
	s.listCalls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.User, 0, len(s.items))
	for _, u := range s.items {
		items = append(items, u)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, int64(len(items)), nil
}

func newCachedUserRepo(t *testing.T, stub *stubUserRepo) (*CachedUserRepository, *miniredis.Miniredis) {
	t.Helper()
	client, mr := setupTestRedis(t)
	log := zaptest.NewLogger(t)
	userCache := cache.NewRedisUserCache(client, 5*time.Minute, time.Minute, log)
	repo := NewCachedUserRepository(stub, userCache, log).(*CachedUserRepository)
	return repo, mr
}

// ==================== ENTITY READ TESTS ====================

func TestCachedUserRepository_GetByID_CachesEntity(t *testing.T) {
	stub := newStubUserRepo(domain.User{ID: 1, Name: "Avery Admin", Email: "avery@example.com", Role: domain.RoleAdmin})
	repo, _ := newCachedUserRepo(t, stub)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Avery Admin", first.Name)
	assert.Equal(t, int32(1), stub.getCalls.Load())

	second, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, int32(1), stub.getCalls.Load(), "second read must be served from cache")
}

func TestCachedUserRepository_GetByID_DedupesConcurrentRequests(t *testing.T) {
	stub := newStubUserRepo(domain.User{ID: 1, Name: "Avery Admin", Email: "avery@example.com"})
	stub.delay = 30 * time.Millisecond

	repo := NewCachedUserRepository(stub, nil, zaptest.NewLogger(t)).(*CachedUserRepository)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := repo.GetByID(context.Background(), 1)
			assert.NoError(t, err)
			assert.NotNil(t, u)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), stub.getCalls.Load(), "concurrent identical reads must collapse into one backend call")
}

func TestCachedUserRepository_GetByEmail_NeverCached(t *testing.T) {
	stub := newStubUserRepo(domain.User{ID: 1, Name: "Avery Admin", Email: "avery@example.com"})
	repo, _ := newCachedUserRepo(t, stub)
	ctx := context.Background()

	got, err := repo.GetByEmail(ctx, "avery@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	_, err = repo.GetByEmail(ctx, "avery@example.com")
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.emailCalls.Load(), "email lookups always hit the backend")
}

// ==================== LIST / INVALIDATION TESTS ====================

func TestCachedUserRepository_List_CachesPages(t *testing.T) {
	stub := newStubUserRepo(
		domain.User{ID: 1, Name: "Avery Admin", Email: "avery@example.com", Role: domain.RoleAdmin},
		domain.User{ID: 2, Name: "Morgan Eden", Email: "morgan@example.com", Role: domain.RoleEditor},
	)
	repo, _ := newCachedUserRepo(t, stub)
	ctx := context.Background()

	filter := domain.Filter{Page: 1, Limit: 10}

	_, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int32(1), stub.listCalls.Load())

	_, _, err = repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), stub.listCalls.Load(), "repeated list must be served from cache")
}

func TestCachedUserRepository_WritesInvalidateListPages(t *testing.T) {
	stub := newStubUserRepo(domain.User{ID: 1, Name: "Avery Admin", Email: "avery@example.com", Role: domain.RoleAdmin})
	repo, _ := newCachedUserRepo(t, stub)
	ctx := context.Background()

	filter := domain.Filter{Page: 1, Limit: 10}

	_, _, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), stub.listCalls.Load())

	id, err := repo.Create(ctx, &domain.User{Name: "Morgan Eden", Email: "morgan@example.com", Role: domain.RoleEditor})
	require.NoError(t, err)

	_, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int32(2), stub.listCalls.Load())

	_, err = repo.Update(ctx, &domain.User{ID: id, Name: "Morgan E.", Email: "morgan@example.com", Role: domain.RoleEditor})
	require.NoError(t, err)

	_, _, err = repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(3), stub.listCalls.Load())

	_, err = repo.Delete(ctx, id)
	require.NoError(t, err)

	_, total, err = repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int32(4), stub.listCalls.Load())
}

func TestCachedUserRepository_Update_DropsCachedEntity(t *testing.T) {
	stub := newStubUserRepo(domain.User{ID: 1, Name: "Old Name", Email: "avery@example.com"})
	repo, _ := newCachedUserRepo(t, stub)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), stub.getCalls.Load())

	_, err = repo.Update(ctx, &domain.User{ID: 1, Name: "New Name", Email: "avery@example.com"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, int32(2), stub.getCalls.Load(), "update must drop the cached entity")
}
