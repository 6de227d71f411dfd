package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/milliihq/access/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration (optional cache layer)
	Redis RedisConfig

	// Cache configuration
	Cache CacheConfig

	// Client configuration (permission store side)
	Client ClientConfig

	// Routes configuration (guard redirect targets)
	Routes RoutesConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes)
	HealthPort string
}

// DatabaseConfig holds SQL storage configuration. Driver is "postgres" or
// "sqlite3"; DSN is driver-specific.
type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds the optional Redis cache configuration. An empty URL
// disables the Redis layer.
type RedisConfig struct {
	URL        string
	Password   string
	DB         int
	MaxRetries int
	PoolSize   int
}

// CacheConfig holds effective-permission cache settings
type CacheConfig struct {
	LRUSize int
	TTL     time.Duration
	// SweepSchedule is a cron expression for the periodic cache sweep.
	SweepSchedule string
}

// ClientConfig holds permission-store client settings
type ClientConfig struct {
	// ServiceURL is the base URL of the permission service.
	ServiceURL string
	// FetchTimeout bounds a single permission fetch.
	FetchTimeout time.Duration
	// SessionFile is where the persisted user record lives.
	SessionFile string
	// WatchSession enables the fsnotify watcher on the session file.
	WatchSession bool
}

// RoutesConfig holds the role-based redirect targets used by the route guard
type RoutesConfig struct {
	PortalLanding    string
	DashboardLanding string
	// NavManifest is a YAML navigation manifest; empty uses the built-in
	// default menu.
	NavManifest string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("MILLII_HOST", "0.0.0.0"),
			Port:            getEnv("MILLII_PORT", "8080"),
			ReadTimeout:     getEnvDuration("MILLII_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("MILLII_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("MILLII_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("MILLII_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("MILLII_HEALTH_PORT", "9090"),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("MILLII_DB_DRIVER", "postgres"),
			DSN:          getEnv("MILLII_DB_DSN", ""),
			MaxOpenConns: getEnvInt("MILLII_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("MILLII_DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:        getEnv("MILLII_REDIS_URL", ""),
			Password:   getEnv("MILLII_REDIS_PASSWORD", ""),
			DB:         getEnvInt("MILLII_REDIS_DB", 0),
			MaxRetries: getEnvInt("MILLII_REDIS_MAX_RETRIES", 3),
			PoolSize:   getEnvInt("MILLII_REDIS_POOL_SIZE", 10),
		},
		Cache: CacheConfig{
			LRUSize:       getEnvInt("MILLII_CACHE_LRU_SIZE", 1024),
			TTL:           getEnvDuration("MILLII_CACHE_TTL", 5*time.Minute),
			SweepSchedule: getEnv("MILLII_CACHE_SWEEP_SCHEDULE", "@every 10m"),
		},
		Client: ClientConfig{
			ServiceURL:   getEnv("MILLII_SERVICE_URL", "http://localhost:8080"),
			FetchTimeout: getEnvDuration("MILLII_FETCH_TIMEOUT", 10*time.Second),
			SessionFile:  getEnv("MILLII_SESSION_FILE", defaultSessionFile()),
			WatchSession: getEnvBool("MILLII_WATCH_SESSION", false),
		},
		Routes: RoutesConfig{
			PortalLanding:    getEnv("MILLII_PORTAL_LANDING", "/portal"),
			DashboardLanding: getEnv("MILLII_DASHBOARD_LANDING", "/dashboard"),
			NavManifest:      getEnv("MILLII_NAV_MANIFEST", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:       observability.ParseLogLevel(getEnv("MILLII_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("MILLII_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("invalid database driver: %s (must be postgres or sqlite3)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	if c.Cache.LRUSize <= 0 {
		return fmt.Errorf("cache LRU size must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	if c.Client.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Routes.PortalLanding == "" || c.Routes.DashboardLanding == "" {
		return fmt.Errorf("redirect landing routes are required")
	}

	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "millii-session.json"
	}
	return home + "/.millii/session.json"
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
