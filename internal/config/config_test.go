package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnvs is a helper that sets multiple env vars for the test.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoad_Development_AcceptsDefaultSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
		"JWT_SECRET":  "change-this-to-a-secure-secret",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "change-this-to-a-secure-secret", cfg.JWTSecret)
}

func TestLoad_Production_RejectsDefaultSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  "change-this-to-a-secure-secret",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be explicitly set")
}

func TestLoad_Production_RejectsShortSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  "short-but-not-default-secret",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be at least 32 characters")
}

func TestLoad_Production_AcceptsStrongSecret(t *testing.T) {
	strongSecret := "this-is-a-very-secure-secret-key-for-production-use-1234"
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  strongSecret,
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, strongSecret, cfg.JWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.HTTPPort)
	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, 24*time.Hour, cfg.RefreshExpiry)
	assert.Equal(t, 168*time.Hour, cfg.RefreshRememberExpiry)
	assert.Equal(t, 24*time.Hour, cfg.VerificationExpiry)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.LoginWindow)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_SessionDurationsFromEnv(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":                   "development",
		"JWT_ACCESS_TOKEN_EXPIRY":       "30m",
		"REFRESH_TOKEN_EXPIRY":          "12h",
		"REFRESH_TOKEN_REMEMBER_EXPIRY": "720h",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 12*time.Hour, cfg.RefreshExpiry)
	assert.Equal(t, 720*time.Hour, cfg.RefreshRememberExpiry)
}

func TestLoad_RejectsNonPositiveExpiry(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "development",
		"REFRESH_TOKEN_EXPIRY": "-1h",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":       "development",
		"POSTGRES_HOST":     "db.internal",
		"POSTGRES_PORT":     "5433",
		"POSTGRES_USER":     "auth",
		"POSTGRES_PASSWORD": "pw",
		"AUTH_DB_NAME":      "authdb",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://auth:pw@db.internal:5433/authdb?sslmode=disable", cfg.PostgresDSN())
}

func TestRedisAddr(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
		"REDIS_HOST":  "cache.internal",
		"REDIS_PORT":  "6380",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
