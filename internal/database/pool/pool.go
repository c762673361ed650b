// Package pool configures and reports on the database/sql connection pool behind GORM.
package pool

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	appConfig "github.com/festy23/collabase/internal/config"
)

// Config holds database connection pool configuration.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns default connection pool configuration.
func DefaultPoolConfig() Config {
	return Config{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// LoadPoolConfigFromEnv reads DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS,
// DB_CONN_MAX_LIFETIME and DB_CONN_MAX_IDLE_TIME over DefaultPoolConfig.
func LoadPoolConfigFromEnv() Config {
	cfg := DefaultPoolConfig()
	cfg.MaxOpenConns = appConfig.GetEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns)
	cfg.MaxIdleConns = appConfig.GetEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns)
	cfg.ConnMaxLifetime = appConfig.GetEnvDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime)
	cfg.ConnMaxIdleTime = appConfig.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime)
	return cfg
}

// Validate validates pool configuration.
func (c Config) Validate() error {
	switch {
	case c.MaxOpenConns <= 0:
		return fmt.Errorf("MaxOpenConns must be greater than 0")
	case c.MaxIdleConns < 0:
		return fmt.Errorf("MaxIdleConns must be non-negative")
	case c.MaxIdleConns > c.MaxOpenConns:
		return fmt.Errorf("MaxIdleConns (%d) cannot be greater than MaxOpenConns (%d)",
			c.MaxIdleConns, c.MaxOpenConns)
	case c.ConnMaxLifetime < 0 || c.ConnMaxIdleTime < 0:
		return fmt.Errorf("connection lifetimes must be non-negative")
	}
	return nil
}

// SetupConnectionPool applies poolCfg to the sql.DB behind db.
func SetupConnectionPool(db *gorm.DB, poolCfg Config) error {
	if err := poolCfg.Validate(); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(poolCfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(poolCfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(poolCfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(poolCfg.ConnMaxIdleTime)
	return nil
}

// Stats is the subset of sql.DBStats reported by the health endpoint.
type Stats struct {
	MaxOpen  int   `json:"max_open"`
	Open     int   `json:"open"`
	InUse    int   `json:"in_use"`
	Idle     int   `json:"idle"`
	WaitedOn int64 `json:"wait_count"`
}

// Snapshot reads the current pool statistics of db.
func Snapshot(db *gorm.DB) (Stats, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	s := sqlDB.Stats()
	return Stats{
		MaxOpen:  s.MaxOpenConnections,
		Open:     s.OpenConnections,
		InUse:    s.InUse,
		Idle:     s.Idle,
		WaitedOn: s.WaitCount,
	}, nil
}
