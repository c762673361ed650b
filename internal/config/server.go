package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is empty to listen on all interfaces.
	Host string
	// Port accepts both ":8080" and "8080".
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	// WriteTimeout applies to plain requests; event streams clear their own deadline.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// ShutdownTimeout bounds graceful shutdown of in-flight requests and streams.
	ShutdownTimeout time.Duration
}

// LoadServerConfigFromEnv loads server configuration from environment variables.
func LoadServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Host:              GetEnv("SERVER_HOST", ""),
		Port:              GetEnv("SERVER_PORT", ":8080"),
		ReadHeaderTimeout: GetEnvDuration("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:      GetEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:       GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:   GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// GetAddress returns the listen address for http.Server.
func (c ServerConfig) GetAddress() string {
	if c.Host == "" {
		return ":" + c.port()
	}
	return net.JoinHostPort(c.Host, c.port())
}

func (c ServerConfig) port() string {
	return strings.TrimPrefix(c.Port, ":")
}

// Validate validates server configuration. A zero ReadHeaderTimeout falls back
// to ReadTimeout inside net/http and is accepted.
func (c ServerConfig) Validate() error {
	if port, err := strconv.Atoi(c.port()); err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Port)
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"ReadTimeout", c.ReadTimeout},
		{"WriteTimeout", c.WriteTimeout},
		{"IdleTimeout", c.IdleTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be greater than 0", p.name)
		}
	}

	if c.ReadHeaderTimeout < 0 {
		return fmt.Errorf("ReadHeaderTimeout must be non-negative")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("ShutdownTimeout must be non-negative")
	}
	return nil
}
