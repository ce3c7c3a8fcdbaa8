package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Storage driver names accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Mock      MockConfig
	Telemetry TelemetryConfig
	Logger    LoggerConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// StorageConfig selects the backing store for repositories
type StorageConfig struct {
	Driver     string `mapstructure:"STORAGE_DRIVER"` // memory, sqlite, postgres
	SQLitePath string `mapstructure:"SQLITE_PATH"`
}

// DatabaseConfig holds configuration for PostgreSQL
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     string `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	// Connection pool tuning, durations in seconds.
	MaxOpenConns    int `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int `mapstructure:"DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime int `mapstructure:"DB_CONN_MAX_IDLE_TIME"`
}

// RedisConfig holds configuration for the Redis connection
type RedisConfig struct {
	Enabled     bool   `mapstructure:"REDIS_ENABLED"`
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
}

// CacheConfig holds configuration for the read-through cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"CACHE_ENABLED"`
	EntityTTL time.Duration `mapstructure:"CACHE_ENTITY_TTL"`
	ListTTL   time.Duration `mapstructure:"CACHE_LIST_TTL"`
}

// RateLimitConfig holds configuration for the request rate limiter
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	Rate    float64 `mapstructure:"RATE_LIMIT_RATE"` // tokens refilled per second
	Burst   int     `mapstructure:"RATE_LIMIT_BURST"`
}

// AuthConfig holds configuration for authentication
type AuthConfig struct {
	Enabled   bool          `mapstructure:"AUTH_ENABLED"`
	JWTSecret string        `mapstructure:"AUTH_JWT_SECRET"`
	JWTIssuer string        `mapstructure:"AUTH_JWT_ISSUER"`
	TokenTTL  time.Duration `mapstructure:"AUTH_TOKEN_TTL"`
}

// MockConfig tunes the in-memory store's simulated backend
type MockConfig struct {
	Latency time.Duration `mapstructure:"MOCK_LATENCY"`
}

// TelemetryConfig holds configuration for OpenTelemetry export
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"TELEMETRY_ENABLED"`
	Endpoint string `mapstructure:"TELEMETRY_OTLP_ENDPOINT"` // host:port; empty means stdout exporter
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	// Set defaults first
	setDefaults()

	viper.AddConfigPath(path)
	viper.SetConfigName("app") // Look for app.env
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read from environment variables

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	// Manually populate config from viper
	config.App.Env = viper.GetString("APP_ENV")
	config.App.HTTPPort = viper.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Storage.Driver = viper.GetString("STORAGE_DRIVER")
	config.Storage.SQLitePath = viper.GetString("SQLITE_PATH")

	config.DB.Host = viper.GetString("DB_HOST")
	config.DB.Port = viper.GetString("DB_PORT")
	config.DB.User = viper.GetString("DB_USER")
	config.DB.Password = viper.GetString("DB_PASSWORD")
	config.DB.Name = viper.GetString("DB_NAME")
	config.DB.SSLMode = viper.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = viper.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = viper.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = viper.GetInt("DB_CONN_MAX_LIFETIME")
	config.DB.ConnMaxIdleTime = viper.GetInt("DB_CONN_MAX_IDLE_TIME")

	config.Redis.Enabled = viper.GetBool("REDIS_ENABLED")
	config.Redis.Host = viper.GetString("REDIS_HOST")
	config.Redis.Port = viper.GetString("REDIS_PORT")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.MaxRetries = viper.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = viper.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = viper.GetInt("REDIS_MIN_IDLE_CONN")

	config.Cache.Enabled = viper.GetBool("CACHE_ENABLED")
	config.Cache.EntityTTL = viper.GetDuration("CACHE_ENTITY_TTL")
	config.Cache.ListTTL = viper.GetDuration("CACHE_LIST_TTL")

	config.RateLimit.Enabled = viper.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.Rate = viper.GetFloat64("RATE_LIMIT_RATE")
	config.RateLimit.Burst = viper.GetInt("RATE_LIMIT_BURST")

	config.Auth.Enabled = viper.GetBool("AUTH_ENABLED")
	config.Auth.JWTSecret = viper.GetString("AUTH_JWT_SECRET")
	config.Auth.JWTIssuer = viper.GetString("AUTH_JWT_ISSUER")
	config.Auth.TokenTTL = viper.GetDuration("AUTH_TOKEN_TTL")

	config.Mock.Latency = viper.GetDuration("MOCK_LATENCY")

	config.Telemetry.Enabled = viper.GetBool("TELEMETRY_ENABLED")
	config.Telemetry.Endpoint = viper.GetString("TELEMETRY_OTLP_ENDPOINT")

	config.Logger.Level = viper.GetString("LOG_LEVEL")
	config.Logger.Format = viper.GetString("LOG_FORMAT")
	config.Logger.OutputPath = viper.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = viper.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = viper.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = viper.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = viper.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	// Memory driver is the mock profile: no database, no redis required
	viper.SetDefault("STORAGE_DRIVER", DriverMemory)
	viper.SetDefault("SQLITE_PATH", "admin_panel.db")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "admin_panel")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_MAX_RETRIES", 3)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_MIN_IDLE_CONN", 2)

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("CACHE_ENTITY_TTL", "5m")
	viper.SetDefault("CACHE_LIST_TTL", "1m")

	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RATE", 50.0)
	viper.SetDefault("RATE_LIMIT_BURST", 100)

	viper.SetDefault("AUTH_ENABLED", true)
	viper.SetDefault("AUTH_JWT_SECRET", "dev-only-secret-change-me")
	viper.SetDefault("AUTH_JWT_ISSUER", "admin-panel-api")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("MOCK_LATENCY", "120ms")

	viper.SetDefault("TELEMETRY_ENABLED", false)
	viper.SetDefault("TELEMETRY_OTLP_ENDPOINT", "")

	// Logger defaults
	env := viper.GetString("APP_ENV")
	if env == "production" {
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "json")
		viper.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		viper.SetDefault("LOG_LEVEL", "debug")
		viper.SetDefault("LOG_FORMAT", "console")
		viper.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	viper.SetDefault("LOG_OUTPUT_PATH", "stdout")
	viper.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	viper.SetDefault("SERVICE_NAME", "admin-panel-api")
	viper.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_DRIVER=%s", DriverSQLite)
		}
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.Port == "" || c.DB.Name == "" {
			return fmt.Errorf("DB_HOST, DB_PORT and DB_NAME are required when STORAGE_DRIVER=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.App.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT must not be empty")
	}

	if c.Cache.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("CACHE_ENABLED requires REDIS_ENABLED")
	}
	if c.Cache.Enabled && (c.Cache.EntityTTL <= 0 || c.Cache.ListTTL <= 0) {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if c.RateLimit.Enabled {
		if !c.Redis.Enabled {
			return fmt.Errorf("RATE_LIMIT_ENABLED requires REDIS_ENABLED")
		}
		if c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit rate and burst must be positive")
		}
	}

	if c.Auth.Enabled {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_ENABLED")
		}
		if c.Auth.TokenTTL <= 0 {
			return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
		}
	}

	if c.Mock.Latency < 0 {
		return fmt.Errorf("MOCK_LATENCY must not be negative")
	}

	return nil
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
