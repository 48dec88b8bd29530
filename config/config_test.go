package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.Server.DashboardPort)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "openai/gpt-4o", cfg.OpenRouter.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("OPENROUTER_MODEL", "anthropic/claude-3.5-sonnet")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", cfg.OpenRouter.Model)
}

func TestInvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: "8080"},
		Redis:  RedisConfig{Addr: "localhost:6379"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = ""
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = "8080"
	cfg.Redis.Addr = ""
	assert.Error(t, cfg.Validate())

	// A missing OpenRouter key is tolerated at startup.
	cfg.Redis.Addr = "localhost:6379"
	cfg.OpenRouter.APIKey = ""
	assert.NoError(t, cfg.Validate())
}
