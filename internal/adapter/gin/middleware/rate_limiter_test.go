package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.GET("/other", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func ping(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== RATE LIMITER TESTS ====================

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl := NewRateLimiter(client, RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstCapacity:     5,
		Enabled:           true,
	}, zaptest.NewLogger(t))
	r := newLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := ping(r, "/ping")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}
}

func TestRateLimiter_BlocksWhenExhausted(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.SetTime(time.Unix(1000, 0))

	rl := NewRateLimiter(client, RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstCapacity:     2,
		Enabled:           true,
	}, zaptest.NewLogger(t))
	r := newLimitedRouter(rl)

	require.Equal(t, http.StatusOK, ping(r, "/ping").Code)
	require.Equal(t, http.StatusOK, ping(r, "/ping").Code)

	w := ping(r, "/ping")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "rate_limit_exceeded", env.Error)
	assert.Contains(t, env.Message, "rate limit exceeded")
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.SetTime(time.Unix(1000, 0))

	rl := NewRateLimiter(client, RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstCapacity:     1,
		Enabled:           true,
	}, zaptest.NewLogger(t))
	r := newLimitedRouter(rl)

	require.Equal(t, http.StatusOK, ping(r, "/ping").Code)
	require.Equal(t, http.StatusTooManyRequests, ping(r, "/ping").Code)

	// Two seconds later the bucket refills back to capacity.
	mr.SetTime(time.Unix(1002, 0))
	assert.Equal(t, http.StatusOK, ping(r, "/ping").Code)
}

func TestRateLimiter_SeparateBucketsPerPath(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.SetTime(time.Unix(1000, 0))

	rl := NewRateLimiter(client, RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstCapacity:     1,
		Enabled:           true,
	}, zaptest.NewLogger(t))
	r := newLimitedRouter(rl)

	require.Equal(t, http.StatusOK, ping(r, "/ping").Code)
	require.Equal(t, http.StatusTooManyRequests, ping(r, "/ping").Code)

	assert.Equal(t, http.StatusOK, ping(r, "/other").Code)
}

func TestRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.SetTime(time.Unix(1000, 0))

	rl := NewRateLimiter(client, RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstCapacity:     1,
		Enabled:           true,
	}, zaptest.NewLogger(t))
	r := newLimitedRouter(rl)

	require.Equal(t, http.StatusOK, ping(r, "/ping").Code)
	require.Equal(t, http.StatusTooManyRequests, ping(r, "/ping").Code)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "203.0.113.9:4444"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_BucketExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.SetTime(time.Unix(1000, 0))

	rl := NewRateLimiter(client, RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstCapacity:     1,
		Enabled:           true,
	}, zaptest.NewLogger(t))
	r := newLimitedRouter(rl)

	require.Equal(t, http.StatusOK, ping(r, "/ping").Code)

	// httptest requests come from 192.0.2.1
	key := "ratelimit:tb:GET:/ping:192.0.2.1"
	ttl := mr.TTL(key)
	assert.Greater(t, ttl.Seconds(), 0.0)
	assert.LessOrEqual(t, ttl.Seconds(), 60.0)
}

func TestRateLimiter_Disabled(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl := NewRateLimiter(client, RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstCapacity:     1,
		Enabled:           false,
	}, zaptest.NewLogger(t))
	r := newLimitedRouter(rl)

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, ping(r, "/ping").Code)
	}
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() {
		_ = client.Close()
	})

	rl := NewRateLimiter(client, RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstCapacity:     1,
		Enabled:           true,
	}, zaptest.NewLogger(t))
	r := newLimitedRouter(rl)

	mr.Close()

	assert.Equal(t, http.StatusOK, ping(r, "/ping").Code)
}
