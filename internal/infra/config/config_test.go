package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8001", cfg.HTTP.Address)
	require.Equal(t, "models/wait_time_model.json", cfg.Model.Path)
	require.Equal(t, "random-forest-v1", cfg.Model.Version)
	require.True(t, cfg.Metrics.Enabled)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9000"
  readTimeout: 2s
  allowedOrigins: ["https://kiosk.example.com"]
model:
  path: /srv/models/eta.json
  version: forest-v3
metrics:
  enabled: false
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("MODEL_VERSION", "forest-v4")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	require.Equal(t, "/srv/models/eta.json", cfg.Model.Path)
	require.Equal(t, "forest-v4", cfg.Model.Version)
	require.False(t, cfg.Metrics.Enabled)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Model.Version = " "
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Model.ObjectStore.Enabled = true
	require.Error(t, cfg.Validate())
	cfg.Model.ObjectStore.Endpoint = "localhost:9000"
	cfg.Model.ObjectStore.Bucket = "models"
	cfg.Model.ObjectStore.Key = "wait_time_model.json"
	require.NoError(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Metrics.Path = "metrics"
	require.Error(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
