package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "BACKEND_URL", "BACKEND_TIMEOUT", "BACKEND_TOKEN", "DATABASE_URL",
		"SNAPSHOT_RETENTION", "JWT_SECRET", "TOKEN_EXPIRATION_MINUTES", "DEFAULT_CURRENCY",
		"DEFAULT_RANGE", "STATS_CONFIG", "LOG_LEVEL",
	} {
		unsetForTest(t, key)
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.BackendURL)
	assert.Zero(t, cfg.BackendTimeout)
	assert.Equal(t, 50, cfg.SnapshotRetention)
	assert.Equal(t, time.Hour, cfg.TokenExpiration)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, "monthToDate", cfg.DefaultRange)
	assert.False(t, cfg.SnapshotsEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://reports.internal:8443/")
	t.Setenv("BACKEND_TIMEOUT", "15s")
	t.Setenv("SNAPSHOT_RETENTION", "7")
	t.Setenv("DATABASE_URL", "postgres://localhost/finboard")
	t.Setenv("DEFAULT_CURRENCY", "EUR")
	t.Setenv("TOKEN_EXPIRATION_MINUTES", "5")

	cfg := Load()

	assert.Equal(t, "https://reports.internal:8443", cfg.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 7, cfg.SnapshotRetention)
	assert.Equal(t, 5*time.Minute, cfg.TokenExpiration)
	assert.True(t, cfg.SnapshotsEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("SNAPSHOT_RETENTION", "many")
	t.Setenv("BACKEND_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 50, cfg.SnapshotRetention)
	assert.Zero(t, cfg.BackendTimeout)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Port:              "99999",
		BackendURL:        "ftp://reports",
		DatabaseURL:       "postgres://localhost/finboard",
		SnapshotRetention: 0,
		DefaultCurrency:   "XXX-not-a-code",
		DefaultRange:      "custom",
		LogLevel:          "loud",
	}

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "invalid port 99999")
	assert.Contains(t, msg, "invalid backend URL scheme 'ftp'")
	assert.Contains(t, msg, "invalid snapshot retention 0")
	assert.Contains(t, msg, "unknown currency")
	assert.Contains(t, msg, "invalid default range 'custom'")
	assert.Contains(t, msg, "invalid log level 'loud'")
}

func TestValidate_TokenExpirationRequiredWithSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "s3cret"
	cfg.TokenExpiration = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expiration must be positive")
}

func validConfig() *Config {
	return &Config{
		Port:            "8080",
		BackendURL:      "http://localhost:3000",
		DefaultCurrency: "USD",
		DefaultRange:    "monthToDate",
		LogLevel:        "info",
		TokenExpiration: time.Hour,
	}
}

// unsetForTest clears key for the duration of the test; t.Setenv restores
// the original value on cleanup.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
