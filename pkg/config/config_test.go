package config

import (
	"testing"
	"time"

	"github.com/milliihq/access/pkg/observability"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MILLII_DB_DRIVER", "sqlite3")
	t.Setenv("MILLII_DB_DSN", ":memory:")
}

func TestLoadConfig_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.HealthPort != "9090" {
		t.Errorf("expected default health port 9090, got %s", cfg.Server.HealthPort)
	}
	if cfg.Cache.LRUSize != 1024 {
		t.Errorf("expected default LRU size 1024, got %d", cfg.Cache.LRUSize)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected default cache TTL 5m, got %v", cfg.Cache.TTL)
	}
	if cfg.Client.FetchTimeout != 10*time.Second {
		t.Errorf("expected default fetch timeout 10s, got %v", cfg.Client.FetchTimeout)
	}
	if cfg.Routes.PortalLanding != "/portal" || cfg.Routes.DashboardLanding != "/dashboard" {
		t.Errorf("unexpected default landing routes: %+v", cfg.Routes)
	}
	if cfg.Redis.URL != "" {
		t.Errorf("redis should be disabled by default, got %q", cfg.Redis.URL)
	}
	if cfg.Observability.LogLevel != observability.InfoLevel {
		t.Errorf("expected default info log level, got %v", cfg.Observability.LogLevel)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	validEnv(t)
	t.Setenv("MILLII_PORT", "7000")
	t.Setenv("MILLII_LOG_LEVEL", "debug")
	t.Setenv("MILLII_CACHE_TTL", "30s")
	t.Setenv("MILLII_PORTAL_LANDING", "/client")
	t.Setenv("MILLII_METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "7000" {
		t.Errorf("expected port override, got %s", cfg.Server.Port)
	}
	if cfg.Observability.LogLevel != observability.DebugLevel {
		t.Errorf("expected debug level, got %v", cfg.Observability.LogLevel)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("expected 30s TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Routes.PortalLanding != "/client" {
		t.Errorf("expected portal landing override, got %s", cfg.Routes.PortalLanding)
	}
	if cfg.Observability.MetricsEnabled {
		t.Error("expected metrics disabled")
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing DSN", map[string]string{
			"MILLII_DB_DRIVER": "postgres",
		}},
		{"bad driver", map[string]string{
			"MILLII_DB_DRIVER": "mysql",
			"MILLII_DB_DSN":    "dsn",
		}},
		{"same ports", map[string]string{
			"MILLII_DB_DRIVER":   "sqlite3",
			"MILLII_DB_DSN":      ":memory:",
			"MILLII_PORT":        "8080",
			"MILLII_HEALTH_PORT": "8080",
		}},
		{"zero LRU", map[string]string{
			"MILLII_DB_DRIVER":      "sqlite3",
			"MILLII_DB_DSN":         ":memory:",
			"MILLII_CACHE_LRU_SIZE": "0",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("MILLII_TEST_INT", "not-a-number")
	if got := getEnvInt("MILLII_TEST_INT", 7); got != 7 {
		t.Errorf("malformed int should fall back to default, got %d", got)
	}

	t.Setenv("MILLII_TEST_DUR", "nonsense")
	if got := getEnvDuration("MILLII_TEST_DUR", time.Minute); got != time.Minute {
		t.Errorf("malformed duration should fall back to default, got %v", got)
	}

	t.Setenv("MILLII_TEST_BOOL", "1")
	if !getEnvBool("MILLII_TEST_BOOL", false) {
		t.Error("expected 1 to parse as true")
	}
}
