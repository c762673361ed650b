package config

import (
	"fmt"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
)

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level  string
	Format string
	// Output is stdout, stderr or a file path.
	Output string
	// Service is attached to every entry as the "service" field.
	Service string
}

// LoadLoggerConfigFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and LOG_SERVICE.
// Level and format are case-insensitive.
func LoadLoggerConfigFromEnv() LoggerConfig {
	return LoggerConfig{
		Level:   strings.ToLower(GetEnv("LOG_LEVEL", "info")),
		Format:  strings.ToLower(GetEnv("LOG_FORMAT", "json")),
		Output:  GetEnv("LOG_OUTPUT", "stdout"),
		Service: GetEnv("LOG_SERVICE", "collabase"),
	}
}

// Validate validates logger configuration.
func (c LoggerConfig) Validate() error {
	if !oneOf(c.Level, logLevels) {
		return fmt.Errorf("invalid log level: %s (must be: %s)", c.Level, strings.Join(logLevels, ", "))
	}
	if !oneOf(c.Format, logFormats) {
		return fmt.Errorf("invalid log format: %s (must be: %s)", c.Format, strings.Join(logFormats, ", "))
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("log output must not be empty")
	}
	return nil
}

// IsProduction reports whether the zap production preset applies: JSON output above debug.
func (c LoggerConfig) IsProduction() bool {
	return c.Format == "json" && c.Level != "debug"
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
