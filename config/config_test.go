package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("error = %v, want ErrMissingSecret", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_TIMEZONE", "REDIS_ADDR", "REDIS_DB", "SESSION_TTL", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || cfg.DBDriver != "postgres" || cfg.RedisAddr != "127.0.0.1:6379" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.CookieSecure {
		t.Errorf("session defaults: ttl=%v secure=%v", cfg.SessionTTL, cfg.CookieSecure)
	}
	if dsn := cfg.DSN(); !strings.Contains(dsn, "port=5432") || !strings.Contains(dsn, "TimeZone=UTC") {
		t.Errorf("DSN = %q", dsn)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBDriver != "sqlite" || cfg.SessionTTL != 90*time.Minute || cfg.RedisDB != 3 || !cfg.CookieSecure {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"DB_DRIVER":     "mysql",
		"SESSION_TTL":   "forever",
		"REDIS_DB":      "zero",
		"COOKIE_SECURE": "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s accepted", key, value)
			}
		})
	}
}
