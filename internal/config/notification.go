package config

import (
	"fmt"
	"time"
)

// NotificationConfig holds outbox relay and dashboard settings.
type NotificationConfig struct {
	// PollInterval is how often the relay looks for due outbox events.
	PollInterval time.Duration
	// BatchSize is the maximum number of events claimed per relay pass.
	BatchSize int
	// MaxAttempts is how many deliveries are tried before an event is marked dead.
	MaxAttempts int
	// Lease is how long a claimed event stays invisible to other relays.
	Lease time.Duration
	// DashboardTTL is the age after which undismissed dashboard notifications are swept.
	DashboardTTL time.Duration
}

// LoadNotificationConfigFromEnv loads notification configuration from environment variables.
func LoadNotificationConfigFromEnv() NotificationConfig {
	return NotificationConfig{
		PollInterval: GetEnvDuration("NOTIFY_POLL_INTERVAL", 2*time.Second),
		BatchSize:    GetEnvInt("NOTIFY_BATCH_SIZE", 50),
		MaxAttempts:  GetEnvInt("NOTIFY_MAX_ATTEMPTS", 8),
		Lease:        GetEnvDuration("NOTIFY_LEASE", 30*time.Second),
		DashboardTTL: GetEnvDuration("DASHBOARD_TTL", 30*24*time.Hour),
	}
}

// Validate validates notification configuration.
func (c NotificationConfig) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("NOTIFY_POLL_INTERVAL must be greater than 0")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("NOTIFY_BATCH_SIZE must be greater than 0")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("NOTIFY_MAX_ATTEMPTS must be greater than 0")
	}
	if c.Lease <= 0 {
		return fmt.Errorf("NOTIFY_LEASE must be greater than 0")
	}
	if c.DashboardTTL <= 0 {
		return fmt.Errorf("DASHBOARD_TTL must be greater than 0")
	}
	return nil
}
