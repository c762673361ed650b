package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// setupAndRestoreEnv saves original env vars and sets new ones for testing.
func setupAndRestoreEnv(t *testing.T, envVars map[string]string) func() {
	t.Helper()
	originalEnv := make(map[string]string)
	for key := range envVars {
		originalEnv[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	for key, value := range envVars {
		os.Setenv(key, value)
	}
	return func() {
		for key := range envVars {
			os.Unsetenv(key)
		}
		for key, value := range originalEnv {
			if value != "" {
				os.Setenv(key, value)
			}
		}
	}
}

func TestLoadFromEnv_DefaultValues(t *testing.T) {
	restore := setupAndRestoreEnv(t, map[string]string{})
	defer restore()

	cfg := LoadFromEnv()
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Notification.DashboardTTL)
}

func TestLoadFromEnv_CustomValues(t *testing.T) {
	restore := setupAndRestoreEnv(t, map[string]string{
		"SERVER_PORT": ":9090",
		"LOG_LEVEL":   "debug",
		"GIN_MODE":    "debug",
	})
	defer restore()

	cfg := LoadFromEnv()
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "debug", cfg.GinMode)
}

// validConfig returns a configuration that passes validation.
func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Auth: AuthConfig{
			JWTSecret:     "0123456789abcdef0123456789abcdef",
			TokenTTL:      time.Hour,
			EmailTokenTTL: time.Hour,
		},
		Notification: NotificationConfig{
			PollInterval: time.Second,
			BatchSize:    10,
			MaxAttempts:  3,
			Lease:        time.Second,
			DashboardTTL: time.Hour,
		},
		GinMode: "release",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := validConfig()

		err := cfg.Validate()
		assert.NoError(t, err)
	})

	t.Run("invalid server config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.ReadTimeout = 0

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "server config validation failed")
	})

	t.Run("invalid logger config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logger.Level = "invalid"

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger config validation failed")
	})

	t.Run("invalid gin mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.GinMode = "invalid"

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid GIN_MODE")
	})

	t.Run("short secret rejected in release mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.JWTSecret = "short"

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "auth config validation failed")
	})

	t.Run("short secret allowed in debug mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.JWTSecret = "short"
		cfg.GinMode = "debug"

		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing secret rejected in every mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.JWTSecret = ""
		cfg.GinMode = "test"

		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid notification config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Notification.BatchSize = 0

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "notification config validation failed")
	})

	t.Run("valid gin modes", func(t *testing.T) {
		validModes := []string{"debug", "release", "test"}
		for _, mode := range validModes {
			cfg := validConfig()
			cfg.GinMode = mode

			err := cfg.Validate()
			assert.NoError(t, err, "mode %s should be valid", mode)
		}
	})
}
