// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings shared by the server and dirctl.
type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	DatabaseDriver string        `envconfig:"DATABASE_DRIVER" default:"sqlite"`
	DatabasePath   string        `envconfig:"DATABASE_PATH" default:"messagely.db"`
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	BcryptCost     int           `envconfig:"BCRYPT_COST" default:"12"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads envFiles (missing files are ignored) and then the process
// environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv.Load never overrides variables that are already set.
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that envconfig cannot express.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("%w: JWT_SECRET must be at least 32 characters for HMAC-SHA256 security", ErrInvalidConfig)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("%w: BCRYPT_COST must be between 4 and 14, got %d", ErrInvalidConfig, c.BcryptCost)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: TOKEN_TTL must be positive", ErrInvalidConfig)
	}
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: DATABASE_DRIVER must be sqlite or postgres, got %q", ErrInvalidConfig, c.DatabaseDriver)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// DSN returns the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: LOG_LEVEL %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}
