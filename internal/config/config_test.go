package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONSOLE_JWT_SECRET", "from-env")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Backend.Mode)
	assert.Zero(t, cfg.Backend.RequestTimeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "console_session", cfg.Session.CookieName)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.Expiry())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
backend:
  mode: http
  base_url: http://backend.internal:8000
  request_timeout: 10s
storage:
  driver: redis
  redis_url: redis://localhost:6379/0
auth:
  demo_users:
    - name: Dr. Lina
      email: lina@clinic.com
      password: secret1
`)
	t.Setenv("CONSOLE_SERVER_PORT", "7070")
	t.Setenv("CONSOLE_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("CONSOLE_SESSION_SECURE", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Backend.Mode)
	assert.Equal(t, "http://backend.internal:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, "redis://cache:6379/2", cfg.Storage.RedisURL)
	assert.True(t, cfg.Session.Secure)
	require.Len(t, cfg.Auth.DemoUsers, 1)
	assert.Equal(t, "lina@clinic.com", cfg.Auth.DemoUsers[0].Email)
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		return Config{
			Backend: BackendConfig{Mode: "http", BaseURL: "http://localhost:8000"},
			Storage: StorageConfig{Driver: "memory"},
			Session: SessionConfig{CookieName: "sid"},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Backend.Mode = "memory"
	assert.ErrorContains(t, cfg.Validate(), "jwt_secret")

	cfg = base()
	cfg.Storage.Driver = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "postgres_dsn")

	cfg = base()
	cfg.Storage.Driver = "etcd"
	assert.ErrorContains(t, cfg.Validate(), "unknown storage.driver")
}
