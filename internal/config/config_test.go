package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "LOG_ENV", "LOG_LEVEL", "SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_PORT",
		"DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "DB_PATH", "CACHE_TTL", "RWA_CONFIG",
	} {
		// Setenv registers the restore; .env loading only fills unset keys
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "8080", cfg.Server.Port)
	require.False(t, cfg.IsProduction())
	require.Equal(t, 10*time.Minute, cfg.Cache.GetTTL())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "rwa.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "production"

[server]
port = "9000"

[database]
driver = "sqlite"
path = "/tmp/ledger.db"

[cache]
ttl = "30s"
`), 0o600))

	t.Setenv("RWA_CONFIG", path)
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, "9100", cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	require.Equal(t, 30*time.Second, cfg.Cache.GetTTL())
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_DRIVER=SQLITE\nLOG_LEVEL=debug\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SERVER_PORT", "http")
	_, err = Load()
	require.Error(t, err)
}
