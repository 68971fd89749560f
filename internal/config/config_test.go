package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/armies?sslmode=disable")
	t.Setenv("JWT_KEY", "secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 300, cfg.RevalidateInterval)
	assert.True(t, cfg.RevalidateOnStart)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "en", cfg.DefaultLang)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("REVALIDATE_INTERVAL", "60")
	t.Setenv("REVALIDATE_ON_START", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DEFAULT_LANG", "pl")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 60, cfg.RevalidateInterval)
	assert.False(t, cfg.RevalidateOnStart)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "pl", cfg.DefaultLang)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_KEY", "secret")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("missing jwt key", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/armies")
		t.Setenv("JWT_KEY", "")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_KEY")
	})

	t.Run("non positive interval", func(t *testing.T) {
		setRequired(t)
		t.Setenv("REVALIDATE_INTERVAL", "0")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "REVALIDATE_INTERVAL")
	})

	t.Run("not a number", func(t *testing.T) {
		setRequired(t)
		t.Setenv("TOKEN_TTL_HOURS", "day")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
