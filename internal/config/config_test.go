package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/messagely/internal/config"
)

const secret = "0123456789abcdef0123456789abcdef"

// clearEnv unsets every variable Load reads, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_URL",
		"JWT_SECRET", "TOKEN_TTL", "BCRYPT_COST", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", secret)

	cfg, err := config.Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.BcryptCost)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h TTL, got %v", cfg.TokenTTL)
	}
	if cfg.DSN() != "messagely.db" {
		t.Fatalf("expected sqlite path as DSN, got %s", cfg.DSN())
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelInfo {
		t.Fatalf("expected info level, got %v, %v", level, err)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(noEnvFile(t))
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "JWT_SECRET=" + secret + "\nBCRYPT_COST=5\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("BCRYPT_COST")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BcryptCost != 5 {
		t.Fatalf("expected bcrypt cost 5 from file, got %d", cfg.BcryptCost)
	}
	if level, _ := cfg.SlogLevel(); level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", level)
	}
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			DatabaseDriver: "sqlite",
			JWTSecret:      secret,
			TokenTTL:       time.Hour,
			BcryptCost:     10,
			LogLevel:       "info",
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"short secret", func(c *config.Config) { c.JWTSecret = "short" }},
		{"bcrypt too low", func(c *config.Config) { c.BcryptCost = 3 }},
		{"bcrypt too high", func(c *config.Config) { c.BcryptCost = 15 }},
		{"zero ttl", func(c *config.Config) { c.TokenTTL = 0 }},
		{"postgres without url", func(c *config.Config) { c.DatabaseDriver = "postgres" }},
		{"unknown driver", func(c *config.Config) { c.DatabaseDriver = "mysql" }},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
