// Package service provides business logic layer for statistics module.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/statistics/model"
	"github.com/festy23/collabase/internal/statistics/repository"
)

// Service defines the interface for statistics business logic operations.
type Service interface {
	// GetOverview returns platform-wide counters.
	GetOverview(ctx context.Context) (*model.Overview, error)

	// GetCategoriesStatistics returns counters grouped by team category.
	GetCategoriesStatistics(ctx context.Context) (*model.CategoriesStatisticsResponse, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

// GetOverview returns platform-wide counters.
func (s *service) GetOverview(ctx context.Context) (*model.Overview, error) {
	s.logger.Debugw("GetOverview called")

	stats, err := s.repo.GetOverview(ctx)
	if err != nil {
		s.logger.Errorw("GetOverview failed", "error", err)
		return nil, err
	}

	s.logger.Infow("GetOverview completed", "teams", stats.Teams, "outbox_dead", stats.Outbox.Dead)
	return stats, nil
}

// GetCategoriesStatistics returns counters grouped by team category.
func (s *service) GetCategoriesStatistics(ctx context.Context) (*model.CategoriesStatisticsResponse, error) {
	s.logger.Debugw("GetCategoriesStatistics called")

	categories, err := s.repo.GetCategoriesStatistics(ctx)
	if err != nil {
		s.logger.Errorw("GetCategoriesStatistics failed", "error", err)
		return nil, err
	}

	if categories == nil {
		categories = []model.CategoryStatistics{}
	}

	s.logger.Infow("GetCategoriesStatistics completed", "count", len(categories))
	return &model.CategoriesStatisticsResponse{
		Categories: categories,
		Total:      len(categories),
	}, nil
}
