// Package service provides business logic layer for notification module.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/config"
	"github.com/festy23/collabase/internal/live"
	notificationModel "github.com/festy23/collabase/internal/notification/model"
	"github.com/festy23/collabase/internal/notification/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Publisher receives change signals after a user edits their notifications.
type Publisher interface {
	Publish(topics ...string)
}

// Service defines the interface for notification operations. Every
// operation is scoped to the recipient.
type Service interface {
	// List returns the user's durable notifications newest first with the unread count.
	List(ctx context.Context, userID string, filter notificationModel.ListFilter) (*notificationModel.ListResponse, error)

	// UnreadCount counts the user's unread durable notifications.
	UnreadCount(ctx context.Context, userID string) (int64, error)

	// MarkRead flags one notification read.
	MarkRead(ctx context.Context, userID, id string) error

	// MarkAllRead flags all of the user's notifications read.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// Delete removes one notification.
	Delete(ctx context.Context, userID, id string) error

	// ListDashboard sweeps expired prompts and returns the rest newest first.
	ListDashboard(ctx context.Context, userID string) ([]notificationModel.DashboardNotification, error)

	// Dismiss deletes a dashboard prompt. Dismissing a missing prompt succeeds.
	Dismiss(ctx context.Context, userID, id string) error
}

type service struct {
	repo      repository.Repository
	publisher Publisher
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.SugaredLogger
}

// New creates a new notification service instance.
func New(
	repo repository.Repository,
	publisher Publisher,
	cfg config.NotificationConfig,
	logger *zap.SugaredLogger,
) Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		ttl:       cfg.DashboardTTL,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

func (s *service) List(
	ctx context.Context,
	userID string,
	filter notificationModel.ListFilter,
) (*notificationModel.ListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	notifications, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return &notificationModel.ListResponse{Notifications: notifications, UnreadCount: unread}, nil
}

func (s *service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	s.signal(live.NotificationsTopic(userID))
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if updated > 0 {
		s.signal(live.NotificationsTopic(userID))
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.signal(live.NotificationsTopic(userID))
	return nil
}

func (s *service) ListDashboard(ctx context.Context, userID string) ([]notificationModel.DashboardNotification, error) {
	if s.ttl > 0 {
		swept, err := s.repo.SweepDashboard(ctx, userID, s.now().Add(-s.ttl))
		if err != nil {
			// A failed sweep only leaves stale prompts visible.
			s.logger.Warnw("Failed to sweep dashboard notifications", "user_id", userID, "error", err)
		} else if swept > 0 {
			s.logger.Debugw("Swept dashboard notifications", "user_id", userID, "count", swept)
		}
	}

	items, err := s.repo.ListDashboard(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboard notifications: %w", err)
	}
	return items, nil
}

func (s *service) Dismiss(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.DeleteDashboard(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to dismiss dashboard notification: %w", err)
	}
	if deleted > 0 {
		s.signal(live.DashboardTopic(userID))
	}
	return nil
}

func (s *service) signal(topics ...string) {
	if s.publisher != nil {
		s.publisher.Publish(topics...)
	}
}
