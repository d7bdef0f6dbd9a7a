package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/domain/accounts"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.True(t, cfg.BootstrapChart)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestRoleOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ACCOUNT_ROLES", "cash:7,inventory:9")

	cfg, err := Load()
	require.NoError(t, err)

	roles, err := cfg.RoleOverrides()
	require.NoError(t, err)
	assert.Equal(t, map[accounts.Role]int64{accounts.RoleCash: 7, accounts.RoleInventory: 9}, roles)
}

func TestRoleOverrides_Invalid(t *testing.T) {
	cfg := &Config{StorageDriver: DriverMemory, IdempotencyTTL: 1, AccountRoles: map[string]string{"till": "1"}}
	assert.Error(t, cfg.Validate())

	cfg.AccountRoles = map[string]string{"cash": "x"}
	assert.Error(t, cfg.Validate())
}
