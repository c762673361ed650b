package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables that are already set are left untouched and
// missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// GetEnv reads an environment variable. Empty counts as unset.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt reads an integer; unset or unparsable values yield defaultValue.
func GetEnvInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// GetEnvDuration reads a time.ParseDuration value.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// GetEnvBool reads a strconv.ParseBool value.
func GetEnvBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, strconv.ParseBool)
}

// GetEnvFloat reads a float64.
func GetEnvFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := parse(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
