// Package migrate applies the SQL files in migrations/ with golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appConfig "github.com/festy23/collabase/internal/config"
)

// GetMigrationsPath returns MIGRATIONS_PATH, "migrations" by default.
func GetMigrationsPath() string {
	return appConfig.GetEnv("MIGRATIONS_PATH", "migrations")
}

// Migrate brings the schema to the latest version and logs it.
// A dirty schema is reported as an error.
func Migrate(db *gorm.DB, logger *zap.SugaredLogger) error {
	return run(db, logger, "up", func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// Rollback reverts the last steps migrations.
func Rollback(db *gorm.DB, logger *zap.SugaredLogger, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be greater than 0, got %d", steps)
	}
	return run(db, logger, "down", func(m *migrate.Migrate) error {
		return m.Steps(-steps)
	})
}

func run(db *gorm.DB, logger *zap.SugaredLogger, direction string, apply func(*migrate.Migrate) error) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	m, dir, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := apply(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply %s migrations: %w", direction, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}

	logger.Infow("Database schema migrated", "direction", direction, "version", version, "path", dir)
	return nil
}

// newMigrator opens a migrator over the sql.DB behind db. The migrator is not
// closed: closing it would close the shared connection pool.
func newMigrator(db *gorm.DB) (*migrate.Migrate, string, error) {
	if db == nil {
		return nil, "", fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	dir, err := filepath.Abs(GetMigrationsPath())
	if err != nil {
		return nil, "", fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("migrations directory does not exist: %s", dir)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, dir, nil
}
