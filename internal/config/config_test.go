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
	for _, key := range []string{
		"CYCLE_CONFIG_PATH", "CYCLE_ENV_FILE", "CYCLE_SERVER_HOST", "CYCLE_SERVER_PORT",
		"CYCLE_AUTH_TOKEN", "CYCLE_TRANSPORT_MODE", "CYCLE_STORE_BACKEND", "MONGODB_URI",
		"CYCLE_MONGO_URI", "CYCLE_MONGO_DATABASE", "CYCLE_MONGO_CONNECT_TIMEOUT",
		"CYCLE_SQLITE_PATH", "CYCLE_LOCAL_DRIVER", "CYCLE_LOCAL_DIR", "CYCLE_REDIS_ADDR",
		"CYCLE_REDIS_PASSWORD", "CYCLE_REDIS_DB", "CYCLE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "sqlite", cfg.Store.Backend)
	require.Equal(t, "http", cfg.Transport.Mode)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
store:
  backend: mongo
mongo:
  uri: mongodb://file-host:27017
  connect_timeout: 3s
log:
  level: debug
`), 0o644))

	t.Setenv("CYCLE_CONFIG_PATH", path)
	t.Setenv("MONGODB_URI", "mongodb+srv://env-host/cycle")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "mongo", cfg.Store.Backend)
	require.Equal(t, "mongodb+srv://env-host/cycle", cfg.Mongo.URI)
	require.Equal(t, 3*time.Second, cfg.Mongo.ConnectTimeout)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cycle.env")
	require.NoError(t, os.WriteFile(path, []byte("CYCLE_STORE_BACKEND=local\nCYCLE_LOCAL_DIR=/tmp/cycle\nCYCLE_SERVER_PORT=7070\n"), 0o644))
	t.Setenv("CYCLE_ENV_FILE", path)
	t.Setenv("CYCLE_SERVER_PORT", "7171")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Store.Backend)
	require.Equal(t, "/tmp/cycle", cfg.Local.Dir)
	require.Equal(t, 7171, cfg.Server.Port, "process environment wins over the env file")
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CYCLE_ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MongoRequiresURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("CYCLE_STORE_BACKEND", "mongo")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("MONGODB_URI", "postgres://nope")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	_, err = Load()
	require.NoError(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"CYCLE_SERVER_PORT":    "eighty",
		"CYCLE_TRANSPORT_MODE": "websocket",
		"CYCLE_STORE_BACKEND":  "postgres",
		"CYCLE_LOG_LEVEL":      "loud",
		"CYCLE_LOCAL_DRIVER":   "s3",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
