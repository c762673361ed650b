package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAuthConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"AUTH_JWT_SECRET", "AUTH_TOKEN_TTL", "AUTH_EMAIL_TOKEN_TTL", "APP_BASE_URL"} {
			os.Unsetenv(key)
		}

		cfg := LoadAuthConfigFromEnv()

		assert.Empty(t, cfg.JWTSecret)
		assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
		assert.Equal(t, 24*time.Hour, cfg.EmailTokenTTL)
		assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Setenv("AUTH_JWT_SECRET", "secret")
		os.Setenv("AUTH_TOKEN_TTL", "2h")
		defer os.Unsetenv("AUTH_JWT_SECRET")
		defer os.Unsetenv("AUTH_TOKEN_TTL")

		cfg := LoadAuthConfigFromEnv()

		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	})
}

func TestAuthConfig_Validate(t *testing.T) {
	base := AuthConfig{
		JWTSecret:     "0123456789abcdef0123456789abcdef",
		TokenTTL:      time.Hour,
		EmailTokenTTL: time.Hour,
	}

	tests := []struct {
		name      string
		mutate    func(c *AuthConfig)
		strict    bool
		wantError bool
	}{
		{name: "valid strict", mutate: func(c *AuthConfig) {}, strict: true},
		{name: "empty secret", mutate: func(c *AuthConfig) { c.JWTSecret = "" }, wantError: true},
		{name: "short secret strict", mutate: func(c *AuthConfig) { c.JWTSecret = "abc" }, strict: true, wantError: true},
		{name: "short secret lenient", mutate: func(c *AuthConfig) { c.JWTSecret = "abc" }},
		{name: "zero token ttl", mutate: func(c *AuthConfig) { c.TokenTTL = 0 }, wantError: true},
		{name: "zero email token ttl", mutate: func(c *AuthConfig) { c.EmailTokenTTL = 0 }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := cfg.Validate(tt.strict)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationConfig_Validate(t *testing.T) {
	valid := NotificationConfig{
		PollInterval: time.Second,
		BatchSize:    1,
		MaxAttempts:  1,
		Lease:        time.Second,
		DashboardTTL: time.Hour,
	}
	assert.NoError(t, valid.Validate())

	noTTL := valid
	noTTL.DashboardTTL = 0
	assert.Error(t, noTTL.Validate())

	noAttempts := valid
	noAttempts.MaxAttempts = 0
	assert.Error(t, noAttempts.Validate())
}
