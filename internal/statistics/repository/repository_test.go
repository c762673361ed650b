package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	notificationModel "github.com/festy23/collabase/internal/notification/model"
	teamModel "github.com/festy23/collabase/internal/team/model"
	"github.com/festy23/collabase/internal/testutil"
)

func seedTeam(t *testing.T, db *gorm.DB, id, category string, size, members int) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&teamModel.Team{
		ID:             id,
		Title:          "Team " + id,
		Category:       category,
		SkillsNeeded:   []string{},
		TeamSize:       size,
		CurrentMembers: members,
		CreatedBy:      "lead-" + id,
		CreatedAt:      now,
		UpdatedAt:      now,
	}).Error)
}

func seedApplication(t *testing.T, db *gorm.DB, teamID, userID string, status teamModel.Status) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&teamModel.Application{
		ID:        fmt.Sprintf("%s-%s", teamID, userID),
		TeamID:    teamID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
}

func seedOutbox(t *testing.T, db *gorm.DB, id string, status notificationModel.OutboxStatus) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&notificationModel.OutboxEvent{
		ID:            id,
		EventType:     notificationModel.EventApplicationSubmitted,
		Status:        status,
		NextAttemptAt: now,
		CreatedAt:     now,
	}).Error)
}

func TestRepository_GetOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		repo := New(testutil.NewDB(t), zap.NewNop().Sugar())

		stats, err := repo.GetOverview(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, stats.Teams)
		assert.Equal(t, 0, stats.Members)
		assert.Equal(t, 0, stats.Outbox.Pending)
	})

	t.Run("counts teams applications and backlog", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := New(db, zap.NewNop().Sugar())

		seedTeam(t, db, "t1", "Hackathon", 3, 3)
		seedTeam(t, db, "t2", "Hackathon", 4, 1)
		seedTeam(t, db, "t3", "Research", 2, 1)

		seedApplication(t, db, "t1", "u1", teamModel.StatusAccepted)
		seedApplication(t, db, "t1", "u2", teamModel.StatusAccepted)
		seedApplication(t, db, "t2", "u1", teamModel.StatusPending)
		seedApplication(t, db, "t2", "u3", teamModel.StatusRejected)
		seedApplication(t, db, "t3", "u2", teamModel.StatusWithdrawn)
		seedApplication(t, db, "t3", "u4", teamModel.StatusPending)

		seedOutbox(t, db, "e1", notificationModel.OutboxPending)
		seedOutbox(t, db, "e2", notificationModel.OutboxProcessing)
		seedOutbox(t, db, "e3", notificationModel.OutboxDelivered)
		seedOutbox(t, db, "e4", notificationModel.OutboxDead)

		stats, err := repo.GetOverview(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, stats.Teams)
		assert.Equal(t, 2, stats.OpenTeams)
		assert.Equal(t, 5, stats.Members)
		assert.Equal(t, 2, stats.Applications.Pending)
		assert.Equal(t, 2, stats.Applications.Accepted)
		assert.Equal(t, 1, stats.Applications.Rejected)
		assert.Equal(t, 1, stats.Applications.Withdrawn)
		assert.Equal(t, 2, stats.Outbox.Pending)
		assert.Equal(t, 1, stats.Outbox.Dead)
	})
}

func TestRepository_GetCategoriesStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		repo := New(testutil.NewDB(t), zap.NewNop().Sugar())

		stats, err := repo.GetCategoriesStatistics(ctx)

		require.NoError(t, err)
		assert.NotNil(t, stats)
		assert.Empty(t, stats)
	})

	t.Run("groups by category ordered by team count", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := New(db, zap.NewNop().Sugar())

		seedTeam(t, db, "t1", "Research", 2, 2)
		seedTeam(t, db, "t2", "Hackathon", 3, 3)
		seedTeam(t, db, "t3", "Hackathon", 4, 1)
		seedTeam(t, db, "t4", "Art", 2, 1)

		stats, err := repo.GetCategoriesStatistics(ctx)

		require.NoError(t, err)
		require.Len(t, stats, 3)
		assert.Equal(t, "Hackathon", stats[0].Category)
		assert.Equal(t, 2, stats[0].Teams)
		assert.Equal(t, 1, stats[0].OpenTeams)
		assert.Equal(t, 4, stats[0].Members)
		// Ties fall back to category name.
		assert.Equal(t, "Art", stats[1].Category)
		assert.Equal(t, "Research", stats[2].Category)
		assert.Equal(t, 0, stats[2].OpenTeams)
	})
}
