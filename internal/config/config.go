// Package config provides application configuration loaded from the environment.
package config

import (
	"fmt"
	"strings"
)

var ginModes = []string{"debug", "release", "test"}

// Config holds application configuration.
type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	// GinMode is debug, release or test.
	GinMode string
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Server:       LoadServerConfigFromEnv(),
		Logger:       LoadLoggerConfigFromEnv(),
		Auth:         LoadAuthConfigFromEnv(),
		Notification: LoadNotificationConfigFromEnv(),
		GinMode:      GetEnv("GIN_MODE", "release"),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if !oneOf(c.GinMode, ginModes) {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: %s)", c.GinMode, strings.Join(ginModes, ", "))
	}

	// Short signing secrets are tolerated outside release builds only.
	if err := c.Auth.Validate(c.GinMode == "release"); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}

	if err := c.Notification.Validate(); err != nil {
		return fmt.Errorf("notification config validation failed: %w", err)
	}

	return nil
}
