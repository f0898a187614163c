package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authorize-net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	key := strings.Repeat("ab", 32)

	t.Run("file values over defaults", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, `
service:
  encryption_key: `+key+`
  app_url: https://app.example.com
metadata:
  driver: memory
server:
  http:
    port: 8181
`))

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "https://app.example.com", cfg.Service.AppURL)
		assert.Equal(t, MetadataDriverMemory, cfg.Metadata.Driver)
		assert.Equal(t, "0.0.0.0:8181", cfg.Server.HTTP.Addr())
		assert.Equal(t, 20*time.Second, cfg.Service.SyncWebhookTimeout)
		assert.Equal(t, 20*time.Second, cfg.Provider.Timeout)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, "service:\n  encryption_key: "+key+"\n"))
		t.Setenv("AUTHORIZE_NET_METADATA_DRIVER", "redis")
		t.Setenv("AUTHORIZE_NET_SERVICE_ALLOW_UNVERIFIED_NOTIFICATIONS", "true")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, MetadataDriverRedis, cfg.Metadata.Driver)
		assert.True(t, cfg.Service.AllowUnverifiedNotifications)
	})

	t.Run("missing encryption key", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, "metadata:\n  driver: memory\n"))

		_, err := LoadConfig()

		assert.ErrorContains(t, err, "encryption_key")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, "service:\n  encryption_key: "+key+"\nmetadata:\n  driver: sqlite\n"))

		_, err := LoadConfig()

		assert.ErrorContains(t, err, "sqlite")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
