package infrastructure

import (
	"fmt"

	"go.uber.org/zap"

	"admin-panel-api/internal/config"
	redisclient "admin-panel-api/pkg/redis"
)

// NewRedisClient connects the shared redis client behind the caches and the
// rate limiter.
func NewRedisClient(cfg config.RedisConfig, l *zap.Logger) (*redisclient.Client, error) {
	client, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		PoolSize:    cfg.PoolSize,
		MinIdleConn: cfg.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
