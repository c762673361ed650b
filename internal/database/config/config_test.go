package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Host:     "localhost",
		User:     "postgres",
		Password: "secret123",
		DBName:   "collabase",
		Port:     "5432",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		for _, key := range []string{"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT", "DB_SSLMODE", "DB_TIMEZONE"} {
			t.Setenv(key, "")
		}

		cfg := LoadConfigFromEnv()

		assert.Equal(t, Config{
			Host:     "localhost",
			User:     "postgres",
			Password: "postgres",
			DBName:   "collabase",
			Port:     "5432",
			SSLMode:  "disable",
			TimeZone: "UTC",
		}, cfg)
	})

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_NAME", "collabase_prod")
		t.Setenv("DB_SSLMODE", "require")

		cfg := LoadConfigFromEnv()

		assert.Equal(t, "db.internal", cfg.Host)
		assert.Equal(t, "collabase_prod", cfg.DBName)
		assert.Equal(t, "require", cfg.SSLMode)
	})
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing host", func(c *Config) { c.Host = "" }, "DB_HOST"},
		{"missing user", func(c *Config) { c.User = "" }, "DB_USER"},
		{"missing name", func(c *Config) { c.DBName = "" }, "DB_NAME"},
		{"non numeric port", func(c *Config) { c.Port = "pg" }, "DB_PORT"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "DB_PORT"},
		{"unknown ssl mode", func(c *Config) { c.SSLMode = "sometimes" }, "DB_SSLMODE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t,
		"host=localhost user=postgres password=secret123 dbname=collabase port=5432 sslmode=disable TimeZone=UTC",
		BuildDSN(validConfig()),
	)
}

func TestSanitizeError(t *testing.T) {
	cfg := validConfig()

	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, SanitizeError(nil, cfg))
	})

	t.Run("full DSN is masked", func(t *testing.T) {
		err := SanitizeError(errors.New("dial failed: `"+BuildDSN(cfg)+"`"), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to database")
		assert.Contains(t, err.Error(), "password=***")
		assert.NotContains(t, err.Error(), "secret123")
	})

	t.Run("bare password is masked", func(t *testing.T) {
		err := SanitizeError(errors.New("auth failed for secret123"), cfg)
		assert.NotContains(t, err.Error(), "secret123")
	})

	t.Run("empty password leaves message intact", func(t *testing.T) {
		cfg := validConfig()
		cfg.Password = ""
		err := SanitizeError(errors.New("connection refused"), cfg)
		assert.Equal(t, "failed to connect to database: connection refused", err.Error())
	})
}

func TestLoadRetryConfigFromEnv(t *testing.T) {
	t.Setenv("DB_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("DB_RETRY_INITIAL_DELAY", "250ms")
	t.Setenv("DB_RETRY_MAX_DELAY", "3s")
	t.Setenv("DB_RETRY_MULTIPLIER", "1.5")

	cfg := LoadRetryConfigFromEnv()

	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 3*time.Second, cfg.MaxDelay)
	assert.InDelta(t, 1.5, cfg.Multiplier, 0.0001)
	assert.NotEmpty(t, cfg.RetryableErrors)
}
