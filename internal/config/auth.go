package config

import (
	"fmt"
	"time"
)

// minSecretLength is the shortest JWT signing secret accepted outside debug mode.
const minSecretLength = 32

// AuthConfig holds identity provider configuration.
type AuthConfig struct {
	// JWTSecret signs and verifies access tokens (HS256).
	JWTSecret string
	// TokenTTL is how long an access token and its session stay valid.
	TokenTTL time.Duration
	// EmailTokenTTL is how long verification and password reset links stay valid.
	EmailTokenTTL time.Duration
	// BaseURL is the public client URL used to build links in emails.
	BaseURL string
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret:     GetEnv("AUTH_JWT_SECRET", ""),
		TokenTTL:      GetEnvDuration("AUTH_TOKEN_TTL", 30*24*time.Hour),
		EmailTokenTTL: GetEnvDuration("AUTH_EMAIL_TOKEN_TTL", 24*time.Hour),
		BaseURL:       GetEnv("APP_BASE_URL", "http://localhost:3000"),
	}
}

// Validate validates auth configuration. A short secret is tolerated only
// when strict is false (debug and test modes).
func (c AuthConfig) Validate(strict bool) error {
	if c.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if strict && len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be greater than 0")
	}
	if c.EmailTokenTTL <= 0 {
		return fmt.Errorf("AUTH_EMAIL_TOKEN_TTL must be greater than 0")
	}
	return nil
}
