package config_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp runs the test from an empty directory so no config.json or .env is picked up
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "contributions.db", cfg.Database.Path)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 200.0, cfg.Treasurer.FlatRate)
	assert.Equal(t, "KES", cfg.Treasurer.Currency)
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTLDuration())
	assert.Equal(t, "0 0 2 * * *", cfg.Jobs.ExportSnapshotCron)
	assert.Contains(t, cfg.RateLimit.WhitelistPaths, "/metrics")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_PATH", "/var/lib/treasurer/data.db")
	t.Setenv("TREASURER_CURRENCY", "UGX")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/treasurer/data.db", cfg.Database.Path)
	assert.Equal(t, "UGX", cfg.Treasurer.Currency)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoadWithSecrets(t *testing.T) {
	chdirTemp(t)

	t.Run("development falls back to an insecure secret", func(t *testing.T) {
		cfg, err := config.LoadWithSecrets(context.Background(), zap.NewNop())
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.Auth.JWTSecret)
	})

	t.Run("production requires a secret", func(t *testing.T) {
		t.Setenv("APP_ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := config.LoadWithSecrets(context.Background(), zap.NewNop())
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_SQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"contributions.db", "file:contributions.db?_cslike=true&_busy_timeout=5000"},
		{":memory:", "file::memory:?_cslike=true&_busy_timeout=5000"},
		{"file:abc?mode=memory", "file:abc?mode=memory&_cslike=true&_busy_timeout=5000"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cfg := &config.DatabaseConfig{Path: tt.path}
			assert.Equal(t, tt.want, cfg.SQLiteDSN())
		})
	}

	assert.True(t, (&config.DatabaseConfig{Path: ":memory:"}).IsMemory())
	assert.True(t, (&config.DatabaseConfig{Path: "file:x?mode=memory"}).IsMemory())
	assert.False(t, (&config.DatabaseConfig{Path: "contributions.db"}).IsMemory())
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "treasurer",
		Password: "pw",
		Name:     "treasurer",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5432 user=treasurer password=pw dbname=treasurer sslmode=disable", cfg.ConnectionString())
}
