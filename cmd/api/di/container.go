package di

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"admin-panel-api/cmd/api/infrastructure"
	"admin-panel-api/internal/adapter/cache"
	"admin-panel-api/internal/adapter/db/gormdb"
	"admin-panel-api/internal/adapter/db/memory"
	ginhandler "admin-panel-api/internal/adapter/gin/handler"
	"admin-panel-api/internal/adapter/gin/middleware"
	ginrouter "admin-panel-api/internal/adapter/gin/router"
	"admin-panel-api/internal/adapter/repository/cached"
	"admin-panel-api/internal/config"
	"admin-panel-api/internal/seed"
	authuc "admin-panel-api/internal/usecase/auth"
	productuc "admin-panel-api/internal/usecase/product"
	useruc "admin-panel-api/internal/usecase/user"
	"admin-panel-api/pkg/auth"
	redisclient "admin-panel-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB            // nil for the memory driver
	RedisClient *redisclient.Client // nil when Redis is disabled
	Tokens      *auth.Manager

	ProductUC *productuc.Usecase
	UserUC    *useruc.Usecase
	AuthUC    *authuc.Usecase

	Router *gin.Engine
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	// Backing store: canned in-memory data or a real database
	productRepo, userRepo, err := c.initRepositories()
	if err != nil {
		return nil, err
	}

	// Redis, when any of the layers above it are enabled
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(cfg.Redis, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
	}

	// Cache decorators always wrap the repositories so identical in-flight
	// reads collapse into one backend call; without Redis they run with a
	// nil cache and only that deduplication remains.
	var productCache cache.ProductCache
	var userCache cache.UserCache
	if cfg.Cache.Enabled && c.RedisClient != nil {
		productCache = cache.NewRedisProductCache(c.RedisClient.Client, cfg.Cache.EntityTTL, cfg.Cache.ListTTL, l)
		userCache = cache.NewRedisUserCache(c.RedisClient.Client, cfg.Cache.EntityTTL, cfg.Cache.ListTTL, l)
	}
	productRepo = cached.NewCachedProductRepository(productRepo, productCache, l)
	userRepo = cached.NewCachedUserRepository(userRepo, userCache, l)

	// Token manager is always built: login stays available with auth
	// disabled, only the route guards switch off.
	tokens, err := auth.NewManager(auth.Config{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.JWTIssuer,
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}
	c.Tokens = tokens

	// Use cases
	c.ProductUC = productuc.New(productRepo, l)
	c.UserUC = useruc.New(userRepo, l)
	c.AuthUC = authuc.New(userRepo, tokens, l)

	// Rate limiter needs Redis; config validation enforces the pairing
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && c.RedisClient != nil {
		rateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.Rate,
				BurstCapacity:     cfg.RateLimit.Burst,
				Enabled:           true,
			},
			l,
		)
	}

	// HTTP surface
	c.Router = ginrouter.Setup(ginrouter.Deps{
		ServiceName: cfg.Logger.ServiceName,
		Telemetry:   cfg.Telemetry.Enabled,
		Auth:        middleware.NewAuthMiddleware(tokens, cfg.Auth.Enabled, l),
		RateLimiter: rateLimiter,
		Health:      ginhandler.NewHealthHandler(cfg.Logger.ServiceName, cfg.Storage.Driver, cfg.Cache.Enabled),
		AuthN:       ginhandler.NewAuthHandler(c.AuthUC, l),
		Products:    ginhandler.NewProductHandler(c.ProductUC, l),
		Users:       ginhandler.NewUserHandler(c.UserUC, l),
		Log:         l,
	})

	return c, nil
}

// initRepositories builds the product and user repositories for the
// configured storage driver. The memory driver is seeded with the canned
// dataset at boot.
func (c *Container) initRepositories() (productuc.Repository, useruc.Repository, error) {
	cfg, l := c.Config, c.Logger

	if cfg.Storage.Driver == config.DriverMemory {
		catalog := seed.Products()
		accounts, err := seed.Users()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build seed users: %w", err)
		}

		products := memory.NewProductStore(cfg.Mock.Latency, l)
		products.Seed(catalog)
		users := memory.NewUserStore(cfg.Mock.Latency, l)
		users.Seed(accounts)

		l.Info("memory store seeded",
			zap.Int("products", len(catalog)),
			zap.Int("users", len(accounts)),
		)
		return products, users, nil
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	return gormdb.NewProductRepo(db, l), gormdb.NewUserRepo(db, l), nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
