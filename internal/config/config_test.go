package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres://quizdesk:@localhost:5432/quizdesk?sslmode=disable", cfg.Postgres.DSN())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "quizdesk_session", cfg.Session.CookieName)
	assert.False(t, cfg.Import.StrictLookups)
	assert.True(t, cfg.Admin.SQLEnabled)
	assert.Equal(t, []string{"users", "goose_db_version"}, cfg.Admin.ProtectedTables)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Chdir(t.TempDir())
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("IMPORT_STRICT_LOOKUPS", "true")
	t.Setenv("ADMIN_SQL_TIMEOUT", "5s")
	t.Setenv("ADMIN_PROTECTED_TABLES", " users , members ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
	assert.True(t, cfg.Import.StrictLookups)
	assert.Equal(t, 5*time.Second, cfg.Admin.SQLTimeout)
	assert.Equal(t, []string{"users", "members"}, cfg.Admin.ProtectedTables)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PG_DB=from_file\nHTTP_ADDR=:9090\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Cleanup(func() { os.Unsetenv("PG_DB") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from_file", cfg.Postgres.DBName)
	assert.Equal(t, ":7070", cfg.HTTPAddr, "real environment wins over the file")
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
