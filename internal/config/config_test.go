package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("FullConfig", func(t *testing.T) {
		path := writeConfig(t, `
app:
  name: lendit
  environment: test
  version: "1.0.0"
server:
  port: 9000
database:
  path: /tmp/lendit.db
redis:
  enabled: true
  address: localhost:6379
rate_limit:
  requests: 10
  window: 30
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "lendit", cfg.App.Name)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 10, cfg.RateLimit.Requests)
		assert.Equal(t, 30, cfg.RateLimit.Window)
	})

	t.Run("Defaults", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: /tmp/lendit.db
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "lendit", cfg.App.Name)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30, cfg.RateLimit.Requests)
		assert.Equal(t, 60, cfg.RateLimit.Window)
		assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	})

	t.Run("EnvExpansion", func(t *testing.T) {
		t.Setenv("LENDIT_DB_PATH", "/data/test.db")
		path := writeConfig(t, `
database:
  path: ${LENDIT_DB_PATH}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/data/test.db", cfg.Database.Path)
	})

	t.Run("MissingDatabasePath", func(t *testing.T) {
		path := writeConfig(t, `
app:
  name: lendit
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("RedisEnabledWithoutAddress", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: /tmp/lendit.db
redis:
  enabled: true
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		assert.Error(t, err)
	})
}
