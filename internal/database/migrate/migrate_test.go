package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const repoMigrations = "../../../migrations"

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGetMigrationsPath(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", "")
	assert.Equal(t, "migrations", GetMigrationsPath())

	t.Setenv("MIGRATIONS_PATH", "deploy/sql")
	assert.Equal(t, "deploy/sql", GetMigrationsPath())
}

func TestMigrate_Errors(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		assert.ErrorContains(t, Migrate(nil, nil), "database connection is nil")
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Setenv("MIGRATIONS_PATH", filepath.Join(t.TempDir(), "absent"))

		err := Migrate(openSQLite(t), zap.NewNop().Sugar())
		assert.ErrorContains(t, err, "migrations directory does not exist")
	})

	t.Run("closed connection", func(t *testing.T) {
		t.Setenv("MIGRATIONS_PATH", repoMigrations)
		db := openSQLite(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		assert.Error(t, Migrate(db, nil))
	})

	t.Run("non postgres database", func(t *testing.T) {
		t.Setenv("MIGRATIONS_PATH", repoMigrations)

		err := Migrate(openSQLite(t), zap.NewNop().Sugar())
		assert.ErrorContains(t, err, "failed to create postgres driver")
	})
}

func TestRollback_RejectsNonPositiveSteps(t *testing.T) {
	for _, steps := range []int{0, -2} {
		err := Rollback(openSQLite(t), nil, steps)
		assert.ErrorContains(t, err, "rollback steps must be greater than 0")
	}
}

func TestRepositoryMigrationsArePaired(t *testing.T) {
	ups, err := filepath.Glob(filepath.Join(repoMigrations, "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, statErr := os.Stat(down)
		assert.NoError(t, statErr, "missing down migration for %s", filepath.Base(up))
	}
}
