package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Second, cfg.Sync.NoticeTTL)
	assert.True(t, cfg.Sync.OnStartup)
	assert.Equal(t, "admin", cfg.Seed.AdminLogin)
	assert.Contains(t, cfg.Templates.Retention, "{{responsavel}}")
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REMOTE_SCRIPT_URL", "  https://script.example/exec  ")
	t.Setenv("REMOTE_PUSH_RETRY_DELAY", "250ms")
	t.Setenv("SYNC_NOTICE_TTL", "not-a-duration")
	t.Setenv("SYNC_ON_STARTUP", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "https://script.example/exec", cfg.Remote.ScriptURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Remote.PushRetryDelay)
	assert.Equal(t, 5*time.Second, cfg.Sync.NoticeTTL)
	assert.False(t, cfg.Sync.OnStartup)
}
