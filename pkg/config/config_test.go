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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  uri: mongodb://localhost:27017
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 10*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Search.ResultsTTL)
	assert.Equal(t, 3*time.Second, cfg.Suggestions.Timeout)
	assert.Equal(t, 2500*time.Millisecond, cfg.Suggestions.FanoutTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Suggestions.CacheTTL)
	assert.True(t, cfg.Suggestions.CachingEnabled())
	assert.Equal(t, RateLimitScope{MaxRequests: 100, Window: 15 * time.Minute}, cfg.RateLimit.Public)
	assert.Equal(t, RateLimitScope{MaxRequests: 200, Window: 15 * time.Minute}, cfg.RateLimit.Authenticated)
	assert.Equal(t, RateLimitScope{MaxRequests: 5, Window: 15 * time.Minute}, cfg.RateLimit.Strict)
}

func TestLoadConfig_FileValuesAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: postgres
  postgres_url: postgres://file
redis:
  host: redis.internal
  port: 6380
suggestions:
  timeout: 2s
  fanout_timeout: 1500ms
  cache_enabled: false
rate_limit:
  public:
    max_requests: 10
    window: 1m
`)
	t.Setenv("REDIS_HOST", "redis.env")
	t.Setenv("POSTGRES_URL", "postgres://env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.1")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://env", cfg.Database.PostgresURL)
	assert.Equal(t, "redis.env", cfg.Redis.Host)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.Server.TrustedProxies)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.Suggestions.FanoutTimeout)
	assert.False(t, cfg.Suggestions.CachingEnabled())
	assert.Equal(t, RateLimitScope{MaxRequests: 10, Window: time.Minute}, cfg.RateLimit.Public)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{
			name: "missing mongo uri",
			body: "server:\n  port: 8080\n",
		},
		{
			name: "unknown driver",
			body: "database:\n  driver: cassandra\n",
		},
		{
			name: "fanout not below caller timeout",
			body: "database:\n  uri: mongodb://x\nsuggestions:\n  timeout: 1s\n  fanout_timeout: 1s\n",
		},
		{
			name: "bad redis port env",
			body: "database:\n  uri: mongodb://x\n",
			env:  map[string]string{"REDIS_PORT": "not-a-number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
