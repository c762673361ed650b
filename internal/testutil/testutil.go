// Package testutil provides a SQLite-backed database for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/festy23/collabase/internal/database/database"
	notificationModel "github.com/festy23/collabase/internal/notification/model"
	teamModel "github.com/festy23/collabase/internal/team/model"
	userModel "github.com/festy23/collabase/internal/user/model"
)

var dbSeq atomic.Int64

// NewDB opens a fresh in-memory SQLite database with every model migrated.
// The pool is limited to one connection so all queries see the same database;
// code under test must therefore use the transaction handle inside transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:collabase_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open(sqlite.Open(dsn), zap.NewNop().Sugar())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.User{},
		&userModel.Session{},
		&userModel.AuthToken{},
		&teamModel.Team{},
		&teamModel.Member{},
		&teamModel.Application{},
		&notificationModel.Notification{},
		&notificationModel.DashboardNotification{},
		&notificationModel.OutboxEvent{},
	))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
