// Package database provides database connection management for PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/festy23/collabase/internal/database/config"
	"github.com/festy23/collabase/internal/database/pool"
	"github.com/festy23/collabase/pkg/retry"
)

// slowQueryThreshold is the duration above which GORM reports a query as slow.
const slowQueryThreshold = 500 * time.Millisecond

// New creates a new database connection using environment variables.
func New(logger *zap.SugaredLogger) (*gorm.DB, error) {
	cfg := config.LoadConfigFromEnv()
	return NewWithConfig(cfg, logger)
}

// NewWithConfig creates a new database connection with custom configuration.
// Connection attempts are retried with backoff while PostgreSQL is starting.
func NewWithConfig(cfg config.Config, logger *zap.SugaredLogger) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	retryCfg := config.LoadRetryConfigFromEnv()
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warnw("Database not ready, retrying",
			"attempt", attempt,
			"max_attempts", retryCfg.MaxAttempts,
			"delay", delay,
			"error", config.SanitizeError(err, cfg),
		)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := config.BuildDSN(cfg)
	db, err := retry.DoWithResult(ctx, retryCfg, func() (*gorm.DB, error) {
		return Open(postgres.Open(dsn), logger)
	})
	if err != nil {
		return nil, config.SanitizeError(err, cfg)
	}

	if err := pool.SetupConnectionPool(db, pool.LoadPoolConfigFromEnv()); err != nil {
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	return db, nil
}

// Open opens a GORM connection for the given dialector with the settings
// shared by production and tests: UTC timestamps, translated driver errors
// and SQL logging routed through zap.
func Open(dialector gorm.Dialector, logger *zap.SugaredLogger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: gormlogger.New(zapWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// zapWriter adapts a zap logger to GORM's logger.Writer.
type zapWriter struct {
	logger *zap.SugaredLogger
}

// Printf implements gormlogger.Writer.
func (w zapWriter) Printf(format string, args ...interface{}) {
	w.logger.Warnf(format, args...)
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close gracefully closes database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// GetStats returns database connection pool statistics.
func GetStats(db *gorm.DB) (*sql.DBStats, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return &stats, nil
}
