// Package config loads runtime configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"

	"bookkeeper/internal/domain/accounts"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	HTTPAddr         string        `envconfig:"HTTP_ADDR" default:":8080"`
	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	DBMaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns    int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	AutoMigrate   bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	// BootstrapChart installs the default chart of accounts into an empty database.
	BootstrapChart bool `envconfig:"BOOTSTRAP_CHART" default:"true"`
	// AccountRoles overrides role bindings, e.g. "cash:1,inventory:3".
	AccountRoles map[string]string `envconfig:"ACCOUNT_ROLES"`

	IdempotencyTTL  time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.DBMinConns > c.DBMaxConns {
		return errors.New("DB_MIN_CONNS exceeds DB_MAX_CONNS")
	}
	if c.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be positive")
	}
	if c.CleanupInterval <= 0 {
		return errors.New("CLEANUP_INTERVAL must be positive")
	}
	if _, err := c.RoleOverrides(); err != nil {
		return err
	}
	return nil
}

// RoleOverrides parses AccountRoles.
func (c *Config) RoleOverrides() (map[accounts.Role]int64, error) {
	out := make(map[accounts.Role]int64, len(c.AccountRoles))
	for name, raw := range c.AccountRoles {
		role := accounts.Role(name)
		if !role.Valid() {
			return nil, fmt.Errorf("ACCOUNT_ROLES: unknown role %q", name)
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("ACCOUNT_ROLES: invalid account id %q for role %q", raw, name)
		}
		out[role] = id
	}
	return out, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
