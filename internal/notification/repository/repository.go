// Package repository provides data access for notifications, dashboard
// prompts and the notification outbox.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/collabase/internal/notification/fanout"
	notificationModel "github.com/festy23/collabase/internal/notification/model"
)

// applicationsTable holds the application records that guards are evaluated against.
const applicationsTable = "team_applications"

// Repository defines the interface for notification data access operations.
type Repository interface {
	// Enqueue appends a lifecycle event to the outbox.
	Enqueue(ctx context.Context, event notificationModel.LifecycleEvent) error

	// ClaimDue leases up to limit due outbox events, oldest first.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]notificationModel.OutboxEvent, error)

	// Deliver applies writes and marks the event delivered in one transaction.
	// Returns ErrLeaseLost, with nothing applied, if lease is no longer current.
	Deliver(ctx context.Context, lease notificationModel.Lease, writes []fanout.Write, now time.Time) error

	// Reschedule records a failed attempt and the time of the next one.
	// Returns ErrLeaseLost if lease is no longer current.
	Reschedule(ctx context.Context, lease notificationModel.Lease, attempts int, next time.Time, lastErr string) error

	// MarkDead stops retrying an event. Returns ErrLeaseLost if lease is no longer current.
	MarkDead(ctx context.Context, lease notificationModel.Lease, attempts int, lastErr string) error

	// CountOutbox counts outbox events in status.
	CountOutbox(ctx context.Context, status notificationModel.OutboxStatus) (int64, error)

	// List returns the user's durable notifications newest first.
	List(ctx context.Context, userID string, filter notificationModel.ListFilter) ([]notificationModel.Notification, error)

	// CountUnread counts the user's unread durable notifications.
	CountUnread(ctx context.Context, userID string) (int64, error)

	// MarkRead flags one notification read. Returns ErrNotificationNotFound for other users' ids.
	MarkRead(ctx context.Context, userID, id string) error

	// MarkAllRead flags every unread notification of the user.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// Delete removes one notification of the user.
	Delete(ctx context.Context, userID, id string) error

	// ListDashboard returns the user's dashboard notifications newest first.
	ListDashboard(ctx context.Context, userID string) ([]notificationModel.DashboardNotification, error)

	// SweepDashboard deletes the user's dashboard notifications created before cutoff.
	SweepDashboard(ctx context.Context, userID string, cutoff time.Time) (int64, error)

	// DeleteDashboard removes one dashboard notification of the user, if present.
	DeleteDashboard(ctx context.Context, userID, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new notification repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Enqueue(ctx context.Context, event notificationModel.LifecycleEvent) error {
	at := event.OccurredAt.UTC()
	return r.db.WithContext(ctx).Create(&notificationModel.OutboxEvent{
		ID:            uuid.NewString(),
		EventType:     event.Type,
		Payload:       event,
		Status:        notificationModel.OutboxPending,
		NextAttemptAt: at,
		CreatedAt:     at,
	}).Error
}

func (r *repository) dueScope(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where(
		"(status = ? AND next_attempt_at <= ?) OR (status = ? AND locked_until < ?)",
		notificationModel.OutboxPending, now,
		notificationModel.OutboxProcessing, now,
	)
}

// ClaimDue selects candidates and then takes each one with a conditional
// update, so concurrent relays never lease the same event. Every claim gets a
// fresh lease token; an expired claim loses its token to the next claimant.
func (r *repository) ClaimDue(
	ctx context.Context,
	now time.Time,
	lease time.Duration,
	limit int,
) ([]notificationModel.OutboxEvent, error) {
	db := r.db.WithContext(ctx)

	var candidates []string
	err := r.dueScope(db.Model(&notificationModel.OutboxEvent{}), now).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select due events: %w", err)
	}

	lockedUntil := now.Add(lease)
	claimed := make([]string, 0, len(candidates))
	for _, id := range candidates {
		result := r.dueScope(db.Model(&notificationModel.OutboxEvent{}).Where("id = ?", id), now).
			Updates(map[string]interface{}{
				"status":       notificationModel.OutboxProcessing,
				"locked_until": lockedUntil,
				"lease_id":     uuid.NewString(),
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to claim event %s: %w", id, result.Error)
		}
		if result.RowsAffected == 1 {
			claimed = append(claimed, id)
		}
	}

	events := []notificationModel.OutboxEvent{}
	if len(claimed) == 0 {
		return events, nil
	}
	if err := db.Where("id IN ?", claimed).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load claimed events: %w", err)
	}
	return events, nil
}

// leased scopes an update to the event while lease is still its current claim.
func leased(db *gorm.DB, lease notificationModel.Lease) *gorm.DB {
	return db.Model(&notificationModel.OutboxEvent{}).
		Where("id = ? AND status = ? AND lease_id = ?",
			lease.EventID, notificationModel.OutboxProcessing, lease.Token)
}

// settle applies values to the event under lease and reports a lost lease.
func settle(db *gorm.DB, lease notificationModel.Lease, values map[string]interface{}) error {
	values["locked_until"] = nil
	values["lease_id"] = ""
	result := leased(db, lease).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event %s: %w", lease.EventID, notificationModel.ErrLeaseLost)
	}
	return nil
}

func (r *repository) Deliver(
	ctx context.Context,
	lease notificationModel.Lease,
	writes []fanout.Write,
	now time.Time,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Settle first so a stale holder touches no notification rows.
		err := settle(tx, lease, map[string]interface{}{
			"status":       notificationModel.OutboxDelivered,
			"delivered_at": now,
			"last_error":   "",
		})
		if err != nil {
			return err
		}
		for i := range writes {
			if err := applyWrite(tx, &writes[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyWrite(tx *gorm.DB, w *fanout.Write) error {
	switch w.Kind {
	case fanout.KindAppend:
		n := *w.Durable
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if err := tx.Create(&n).Error; err != nil {
			return fmt.Errorf("failed to append notification: %w", err)
		}
		return nil

	case fanout.KindUpsertDashboard:
		if w.Guard == fanout.GuardPendingExists {
			var pending int64
			err := tx.Table(applicationsTable).
				Where("team_id = ? AND user_id = ? AND status = ?", w.TeamID, w.ApplicantID, "pending").
				Count(&pending).Error
			if err != nil {
				return err
			}
			if pending == 0 {
				return nil
			}
		}
		d := *w.Dashboard
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"team_name", "message", "dismissed", "created_at"}),
		}).Create(&d).Error
		if err != nil {
			return fmt.Errorf("failed to upsert dashboard notification: %w", err)
		}
		return nil

	case fanout.KindRetractDashboard:
		query := tx.Where("id = ?", w.Dashboard.ID)
		if w.Guard == fanout.GuardNoPending {
			pending := tx.Table(applicationsTable).
				Select("1").
				Where("team_id = ? AND status = ?", w.TeamID, "pending")
			query = query.Where("NOT EXISTS (?)", pending)
		}
		if err := query.Delete(&notificationModel.DashboardNotification{}).Error; err != nil {
			return fmt.Errorf("failed to retract dashboard notification: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown write kind %d", w.Kind)
}

func (r *repository) Reschedule(
	ctx context.Context,
	lease notificationModel.Lease,
	attempts int,
	next time.Time,
	lastErr string,
) error {
	return settle(r.db.WithContext(ctx), lease, map[string]interface{}{
		"status":          notificationModel.OutboxPending,
		"attempts":        attempts,
		"next_attempt_at": next,
		"last_error":      lastErr,
	})
}

func (r *repository) MarkDead(ctx context.Context, lease notificationModel.Lease, attempts int, lastErr string) error {
	return settle(r.db.WithContext(ctx), lease, map[string]interface{}{
		"status":     notificationModel.OutboxDead,
		"attempts":   attempts,
		"last_error": lastErr,
	})
}

func (r *repository) CountOutbox(ctx context.Context, status notificationModel.OutboxStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel.OutboxEvent{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	filter notificationModel.ListFilter,
) ([]notificationModel.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	notifications := []notificationModel.Notification{}
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, userID, id string) error {
	var n notificationModel.Notification
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notificationModel.ErrNotificationNotFound
		}
		return err
	}
	if n.Read {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&notificationModel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).Error
}

func (r *repository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationModel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&notificationModel.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notificationModel.ErrNotificationNotFound
	}
	return nil
}

func (r *repository) ListDashboard(ctx context.Context, userID string) ([]notificationModel.DashboardNotification, error) {
	items := []notificationModel.DashboardNotification{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) SweepDashboard(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at < ?", userID, cutoff).
		Delete(&notificationModel.DashboardNotification{})
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteDashboard(ctx context.Context, userID, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&notificationModel.DashboardNotification{})
	return result.RowsAffected, result.Error
}
