package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/internal/app"
)

func TestConvertDatabaseConfig(t *testing.T) {
	cfg := &app.Config{Database: app.DatabaseConfig{
		Driver: " PostgreSQL ",
		Postgres: app.DBAuthConfig{
			Host:     "db.internal",
			Port:     5432,
			Database: "octoops",
			Username: "octo",
			Password: " secret ",
		},
	}}

	dbCfg := convertDatabaseConfig(cfg)
	require.Equal(t, "postgres", dbCfg.Driver)
	require.Equal(t, "db.internal", dbCfg.Host)
	require.Equal(t, 5432, dbCfg.Port)
	require.Equal(t, "octoops", dbCfg.Name)
	require.Equal(t, "secret", dbCfg.Password)

	require.Equal(t, "sqlite", convertDatabaseConfig(&app.Config{}).Driver)
	require.Equal(t, "oracle", convertDatabaseConfig(&app.Config{Database: app.DatabaseConfig{Driver: "oracle"}}).Driver)
}

func TestBootstrapRuntimeWithSQLite(t *testing.T) {
	cfg := &app.Config{
		Database: app.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "octoops.db"),
		},
		Auth: app.AuthConfig{JWT: app.JWTSettings{Secret: "bootstrap-secret", Issuer: "test", TTL: time.Hour}},
		Maintenance: app.MaintenanceConfig{
			Enabled:         true,
			Schedule:        "@every 1h",
			InviteRetention: time.Hour,
		},
	}

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, stack.Router)
	require.NotNil(t, stack.Cleaner)
	require.NoError(t, stack.Store.Ping(context.Background()))

	stack.Shutdown(context.Background(), zap.NewNop())
}

func TestBootstrapRuntimeRejectsUnknownDriver(t *testing.T) {
	cfg := &app.Config{
		Database: app.DatabaseConfig{Driver: "oracle"},
		Auth:     app.AuthConfig{JWT: app.JWTSettings{Secret: "bootstrap-secret"}},
	}

	_, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestOpenStoreMongoRequiresURI(t *testing.T) {
	cfg := &app.Config{Database: app.DatabaseConfig{Driver: "mongodb"}}

	_, err := openStore(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestLoadApplicationConfigMissingPath(t *testing.T) {
	_, err := loadApplicationConfig(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
	require.NoError(t, loadDotEnv(""))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OCTOOPS_DOTENV_PROBE=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("OCTOOPS_DOTENV_PROBE") })

	require.NoError(t, loadDotEnv(path))
	require.Equal(t, "loaded", os.Getenv("OCTOOPS_DOTENV_PROBE"))
}
