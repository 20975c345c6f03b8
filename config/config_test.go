package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL_HOURS", "")
	t.Setenv("EMAIL_TEST_MODE", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.NotEmpty(t, cfg.JWTSecret, "a temporary secret is generated in development")
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.EmailTestMode)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TOKEN_TTL_HOURS", "2")
	t.Setenv("EMAIL_TEST_MODE", "off")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.EmailTestMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))

	t.Setenv("SOME_INT", "-3")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
}

func TestGenerateSecureSecret(t *testing.T) {
	a := GenerateSecureSecret()
	b := GenerateSecureSecret()
	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), MinJWTSecretLength)
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Manila"}
	assert.Equal(t, "Asia/Manila", cfg.Location().String())

	cfg.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, cfg.Location())
}
