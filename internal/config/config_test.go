package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"FLEETMAINT_ENV_FILE",
	"FLEETMAINT_CONFIG_PATH",
	"FLEETMAINT_SERVER_HOST",
	"FLEETMAINT_SERVER_PORT",
	"FLEETMAINT_TRANSPORT",
	"FLEETMAINT_AUTH_ENABLED",
	"FLEETMAINT_DB_PATH",
	"FLEETMAINT_STORE",
	"FLEETMAINT_MONGO_URI",
	"FLEETMAINT_MONGO_DATABASE",
	"FLEETMAINT_LOG_LEVEL",
	"FLEETMAINT_EXTRACTION_URL",
	"FLEETMAINT_EXTRACTION_API_KEY",
	"FLEETMAINT_EXTRACTION_TIMEOUT",
	"FLEETMAINT_EXTRACTION_MAX_PARALLEL",
	"FLEETMAINT_FLEETS",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("FLEETMAINT_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLEETMAINT_SERVER_PORT", "9090")
	t.Setenv("FLEETMAINT_TRANSPORT", "STDIO")
	t.Setenv("FLEETMAINT_AUTH_ENABLED", "false")
	t.Setenv("FLEETMAINT_STORE", "mongo")
	t.Setenv("FLEETMAINT_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("FLEETMAINT_EXTRACTION_TIMEOUT", "45s")
	t.Setenv("FLEETMAINT_FLEETS", "CAT 793, DRILLS ,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, "mongo", cfg.Store.Backend)
	require.Equal(t, 45*time.Second, cfg.Extraction.Timeout)
	require.Equal(t, []string{"CAT 793", "DRILLS"}, cfg.Fleets)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
db:
  path: /data/fleet.db
extraction:
  base_url: https://extract.internal
  timeout: 30s
  max_parallel: 2
fleets:
  - KOMATSU 930
`), 0o600))
	t.Setenv("FLEETMAINT_CONFIG_PATH", path)
	t.Setenv("FLEETMAINT_DB_PATH", "/override.db")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, "/override.db", cfg.DB.Path)
	require.Equal(t, "https://extract.internal", cfg.Extraction.BaseURL)
	require.Equal(t, 30*time.Second, cfg.Extraction.Timeout)
	require.Equal(t, 2, cfg.Extraction.MaxParallel)
	require.Equal(t, []string{"KOMATSU 930"}, cfg.Fleets)
	require.Equal(t, "sqlite", cfg.Store.Backend)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FLEETMAINT_LOG_LEVEL=debug\nFLEETMAINT_SERVER_PORT=8181\n"), 0o600))
	t.Setenv("FLEETMAINT_ENV_FILE", path)
	t.Setenv("FLEETMAINT_SERVER_PORT", "8282")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 8282, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"FLEETMAINT_SERVER_PORT": "http"}},
		{name: "port out of range", env: map[string]string{"FLEETMAINT_SERVER_PORT": "70000"}},
		{name: "bad transport", env: map[string]string{"FLEETMAINT_TRANSPORT": "grpc"}},
		{name: "bad backend", env: map[string]string{"FLEETMAINT_STORE": "postgres"}},
		{name: "mongo without uri", env: map[string]string{"FLEETMAINT_STORE": "mongo"}},
		{name: "bad timeout", env: map[string]string{"FLEETMAINT_EXTRACTION_TIMEOUT": "soon"}},
		{name: "bad auth flag", env: map[string]string{"FLEETMAINT_AUTH_ENABLED": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
