package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pavemaster.dev/integrations/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10*time.Minute, cfg.ConsentTTL)
	assert.Equal(t, config.StorageTypeBBolt, cfg.StorageBackend)
	assert.Equal(t, "pavemaster", cfg.RedisKeyPrefix)
	assert.Empty(t, cfg.EnabledPlatforms())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PAVE_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("PAVE_HTTP_TIMEOUT", "3s")
	t.Setenv("PAVE_STORAGE_BACKEND", "redis")
	t.Setenv("PAVE_PLATFORMS_STRIPE_ENABLED", "true")
	t.Setenv("PAVE_PLATFORMS_STRIPE_CLIENT_ID", "ca_123")
	t.Setenv("PAVE_PLATFORMS_STRIPE_CLIENT_SECRET", "sk_test")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, config.StorageTypeRedis, cfg.StorageBackend)

	enabled := cfg.EnabledPlatforms()
	require.Contains(t, enabled, "stripe")
	assert.Equal(t, "ca_123", enabled["stripe"].ClientID)
	assert.Equal(t, "sk_test", enabled["stripe"].ClientSecret)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pavemaster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage_backend: memory
log_level: debug
platforms:
  sap:
    enabled: true
    client_id: sap-client
    client_secret: sap-secret
    auth_url: https://tenant.example.com/oauth/authorize
    token_url: https://tenant.example.com/oauth/token
    api_base_url: https://tenant.example.com/api
    scopes: [API_BUSINESS_PARTNER]
`), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.StorageTypeMemory, cfg.StorageBackend)
	assert.Equal(t, "debug", cfg.LogLevel)
	sap := cfg.EnabledPlatforms()["sap"]
	assert.Equal(t, "sap-client", sap.ClientID)
	assert.Equal(t, "https://tenant.example.com/oauth/token", sap.TokenURL)
	assert.Equal(t, []string{"API_BUSINESS_PARTNER"}, sap.Scopes)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("PAVE_STORAGE_BACKEND", "cassandra")
		_, err := config.LoadConfig("")
		assert.ErrorContains(t, err, "unknown storage_backend")
	})

	t.Run("enabled without client id", func(t *testing.T) {
		t.Setenv("PAVE_PLATFORMS_ADP_ENABLED", "true")
		_, err := config.LoadConfig("")
		assert.ErrorContains(t, err, "platform adp is enabled but has no client_id")
	})
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
