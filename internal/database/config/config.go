// Package config provides database configuration management.
package config

import (
	"fmt"
	"strconv"
	"strings"

	appConfig "github.com/festy23/collabase/internal/config"
	"github.com/festy23/collabase/pkg/retry"
)

// Config holds database connection configuration.
type Config struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
	TimeZone string
}

var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// LoadConfigFromEnv loads database configuration from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Host:     appConfig.GetEnv("DB_HOST", "localhost"),
		User:     appConfig.GetEnv("DB_USER", "postgres"),
		Password: appConfig.GetEnv("DB_PASSWORD", "postgres"),
		DBName:   appConfig.GetEnv("DB_NAME", "collabase"),
		Port:     appConfig.GetEnv("DB_PORT", "5432"),
		SSLMode:  appConfig.GetEnv("DB_SSLMODE", "disable"),
		TimeZone: appConfig.GetEnv("DB_TIMEZONE", "UTC"),
	}
}

// Validate checks the fields a PostgreSQL DSN cannot do without.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid DB_PORT: %q", c.Port)
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid DB_SSLMODE: %q", c.SSLMode)
	}
	return nil
}

// BuildDSN constructs PostgreSQL DSN string from configuration.
func BuildDSN(cfg Config) string {
	return dsn(cfg, cfg.Password)
}

func dsn(cfg Config, password string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// SanitizeError wraps a connection error with the password masked out.
func SanitizeError(err error, cfg Config) error {
	if err == nil {
		return nil
	}
	msg := strings.ReplaceAll(err.Error(), BuildDSN(cfg), dsn(cfg, "***"))
	if cfg.Password != "" {
		msg = strings.ReplaceAll(msg, cfg.Password, "***")
	}
	return fmt.Errorf("failed to connect to database: %s", msg)
}

// LoadRetryConfigFromEnv loads connect retry configuration from environment variables.
func LoadRetryConfigFromEnv() retry.Config {
	cfg := retry.PostgresConfig()
	cfg.MaxAttempts = appConfig.GetEnvInt("DB_RETRY_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.InitialDelay = appConfig.GetEnvDuration("DB_RETRY_INITIAL_DELAY", cfg.InitialDelay)
	cfg.MaxDelay = appConfig.GetEnvDuration("DB_RETRY_MAX_DELAY", cfg.MaxDelay)
	cfg.Multiplier = appConfig.GetEnvFloat("DB_RETRY_MULTIPLIER", cfg.Multiplier)
	return cfg
}
