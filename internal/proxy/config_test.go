package proxy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proxy.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
[proxy]
address = 127.0.0.1:9090
endpoint = farui.cn-hangzhou.aliyuncs.com
workspace_id = ws1
allowed_origins = https://app.example.com, https://admin.example.com
requests_per_minute = 30
burst = 5
upstream_timeout = 10s
hash_payload = true
`)
	cfg, err := LoadConfig(path, envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Address)
	assert.Equal(t, "farui.cn-hangzhou.aliyuncs.com", cfg.Endpoint)
	assert.Equal(t, "ws1", cfg.WorkspaceID)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, float64(30), cfg.RequestsPerMinute)
	assert.Equal(t, 5, cfg.Burst)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.True(t, cfg.HashPayload)
	assert.Equal(t, int64(defaultMaxBodyBytes), cfg.MaxBodyBytes)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[proxy]\nworkspace_id = ws1\n")
	cfg, err := LoadConfig(path, envFrom(map[string]string{
		EnvAddress:        ":7070",
		EnvWorkspaceID:    "ws2",
		EnvAllowedOrigins: "https://a.example.com,",
		EnvRateLimit:      "0",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Address)
	assert.Equal(t, defaultEndpoint, cfg.Endpoint)
	assert.Equal(t, "ws2", cfg.WorkspaceID)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.AllowedOrigins)
	assert.Zero(t, cfg.RequestsPerMinute)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("", envFrom(map[string]string{EnvWorkspaceID: "ws1"}))
	require.NoError(t, err)
	assert.Equal(t, defaultAddress, cfg.Address)
	assert.Equal(t, float64(defaultRequestsPerMinute), cfg.RequestsPerMinute)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("", envFrom(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig("", envFrom(map[string]string{EnvWorkspaceID: "ws1", EnvRateLimit: "fast"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.ini"), envFrom(nil))
	assert.Error(t, err)
}
