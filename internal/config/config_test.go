package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FIREBASE_PROJECT_ID", "carpool-test")
	t.Setenv("FIREBASE_DATABASE_URL", "https://carpool-test.firebaseio.com")
	t.Setenv("OSRM_ENDPOINT", "http://localhost:5000")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, time.Second, cfg.StorePollInterval)
	assert.Equal(t, 10*time.Minute, cfg.RouteCacheTTL)
	assert.Equal(t, "carpool-test", cfg.FirebaseProjectID)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("STORE_POLL_INTERVAL", "250ms")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, 250*time.Millisecond, cfg.StorePollInterval)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"no project id", "FIREBASE_PROJECT_ID"},
		{"no database url", "FIREBASE_DATABASE_URL"},
		{"no osrm endpoint", "OSRM_ENDPOINT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")

			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_InvalidPollInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORE_POLL_INTERVAL", "0s")

	_, err := LoadConfig()
	require.Error(t, err)
}
