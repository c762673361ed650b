// Package repository provides data access layer for statistics module.
package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/collabase/internal/statistics/model"
)

// Repository defines the interface for statistics data access operations.
type Repository interface {
	// GetOverview returns platform-wide counters.
	GetOverview(ctx context.Context) (*model.Overview, error)

	// GetCategoriesStatistics returns counters grouped by team category.
	GetCategoriesStatistics(ctx context.Context) ([]model.CategoryStatistics, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// GetOverview returns platform-wide counters.
func (r *repository) GetOverview(ctx context.Context) (*model.Overview, error) {
	r.logger.Debugw("GetOverview called")

	var teams struct {
		Teams     int64 `gorm:"column:teams"`
		OpenTeams int64 `gorm:"column:open_teams"`
		Members   int64 `gorm:"column:members"`
	}
	err := r.db.WithContext(ctx).
		Table("teams").
		Select(`
			COUNT(*) as teams,
			COALESCE(SUM(CASE WHEN current_members < team_size THEN 1 ELSE 0 END), 0) as open_teams,
			COALESCE(SUM(current_members), 0) as members
		`).
		Scan(&teams).Error
	if err != nil {
		r.logger.Errorw("GetOverview teams query failed", "error", err)
		return nil, err
	}

	var apps struct {
		Pending   int64 `gorm:"column:pending"`
		Accepted  int64 `gorm:"column:accepted"`
		Rejected  int64 `gorm:"column:rejected"`
		Withdrawn int64 `gorm:"column:withdrawn"`
	}
	err = r.db.WithContext(ctx).
		Table("team_applications").
		Select(`
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) as pending,
			COALESCE(SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END), 0) as accepted,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) as rejected,
			COALESCE(SUM(CASE WHEN status = 'withdrawn' THEN 1 ELSE 0 END), 0) as withdrawn
		`).
		Scan(&apps).Error
	if err != nil {
		r.logger.Errorw("GetOverview applications query failed", "error", err)
		return nil, err
	}

	// Events being processed still count as backlog.
	var outbox struct {
		Pending int64 `gorm:"column:pending"`
		Dead    int64 `gorm:"column:dead"`
	}
	err = r.db.WithContext(ctx).
		Table("notification_outbox").
		Select(`
			COALESCE(SUM(CASE WHEN status IN ('pending', 'processing') THEN 1 ELSE 0 END), 0) as pending,
			COALESCE(SUM(CASE WHEN status = 'dead' THEN 1 ELSE 0 END), 0) as dead
		`).
		Scan(&outbox).Error
	if err != nil {
		r.logger.Errorw("GetOverview outbox query failed", "error", err)
		return nil, err
	}

	stats := &model.Overview{
		Teams:     int(teams.Teams),
		OpenTeams: int(teams.OpenTeams),
		Members:   int(teams.Members),
		Applications: model.ApplicationCounts{
			Pending:   int(apps.Pending),
			Accepted:  int(apps.Accepted),
			Rejected:  int(apps.Rejected),
			Withdrawn: int(apps.Withdrawn),
		},
		Outbox: model.OutboxCounts{
			Pending: int(outbox.Pending),
			Dead:    int(outbox.Dead),
		},
	}

	r.logger.Debugw("GetOverview completed", "teams", stats.Teams)
	return stats, nil
}

// GetCategoriesStatistics returns counters grouped by team category.
func (r *repository) GetCategoriesStatistics(ctx context.Context) ([]model.CategoryStatistics, error) {
	r.logger.Debugw("GetCategoriesStatistics called")

	var stats []model.CategoryStatistics

	err := r.db.WithContext(ctx).
		Table("teams").
		Select(`
			category,
			COUNT(*) as teams,
			COALESCE(SUM(CASE WHEN current_members < team_size THEN 1 ELSE 0 END), 0) as open_teams,
			COALESCE(SUM(current_members), 0) as members
		`).
		Group("category").
		Order("teams DESC, category ASC").
		Scan(&stats).Error

	if err != nil {
		r.logger.Errorw("GetCategoriesStatistics database error", "error", err)
		return nil, err
	}

	if stats == nil {
		stats = []model.CategoryStatistics{}
	}

	r.logger.Debugw("GetCategoriesStatistics completed", "count", len(stats))
	return stats, nil
}
