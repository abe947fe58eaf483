package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "imagencali.db", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "Strict", cfg.CookieSameSite)
	assert.Equal(t, "/api/auth", cfg.CookiePath)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
	assert.Equal(t, 4096, cfg.MaxImageDimension)
	assert.Equal(t, 1024, cfg.MaxOptimizedSize)
	assert.False(t, cfg.IsProd())
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_IdenticalSecretsRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "same")
	t.Setenv("JWT_REFRESH_SECRET", "same")

	_, err := Load()
	assert.ErrorContains(t, err, "must differ")
}

func TestLoad_ProdRequiresSecureCookies(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("COOKIE_SECURE", "false")

	_, err := Load()
	assert.ErrorContains(t, err, "COOKIE_SECURE")
}

func TestLoad_ProdRequiresStorageConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("COOKIE_SECURE", "true")

	_, err := Load()
	assert.ErrorContains(t, err, "R2_ACCOUNT_ID")
}

func TestLoad_SameSiteNoneNeedsSecure(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COOKIE_SAMESITE", "None")
	t.Setenv("COOKIE_SECURE", "false")

	_, err := Load()
	assert.ErrorContains(t, err, "COOKIE_SECURE")
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_ACCESS_TTL")
}
