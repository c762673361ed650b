package model

import "time"

// EventType enumerates application lifecycle transitions that produce notifications.
type EventType string

// Lifecycle event types.
const (
	EventApplicationSubmitted EventType = "application_submitted"
	EventApplicationWithdrawn EventType = "application_withdrawn"
	EventApplicationAccepted  EventType = "application_accepted"
	EventApplicationRejected  EventType = "application_rejected"
)

// LifecycleEvent describes one committed transition on a (team, applicant) pair.
type LifecycleEvent struct {
	Type          EventType `json:"type"`
	TeamID        string    `json:"team_id"`
	TeamName      string    `json:"team_name"`
	CreatorID     string    `json:"creator_id"`
	ApplicantID   string    `json:"applicant_id"`
	ApplicantName string    `json:"applicant_name"`
	WhatsAppLink  string    `json:"whatsapp_link,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// OutboxStatus is the delivery state of an outbox event.
type OutboxStatus string

// Outbox statuses.
const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxDelivered  OutboxStatus = "delivered"
	OutboxDead       OutboxStatus = "dead"
)

// OutboxEvent is a lifecycle event waiting to be fanned out. It is written in
// the same transaction as the transition it describes.
type OutboxEvent struct {
	ID            string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	EventType     EventType      `gorm:"column:event_type;type:varchar(32);not null"`
	Payload       LifecycleEvent `gorm:"column:payload;type:text;serializer:json;not null"`
	Status        OutboxStatus   `gorm:"column:status;type:varchar(16);not null;index:idx_notification_outbox_due,priority:1"`
	Attempts      int            `gorm:"column:attempts;not null;default:0"`
	NextAttemptAt time.Time      `gorm:"column:next_attempt_at;not null;index:idx_notification_outbox_due,priority:2"`
	LockedUntil   *time.Time     `gorm:"column:locked_until"`
	LeaseID       string         `gorm:"column:lease_id;type:varchar(36);not null;default:''"`
	LastError     string         `gorm:"column:last_error;type:text;not null;default:''"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null"`
	DeliveredAt   *time.Time     `gorm:"column:delivered_at"`
}

// Lease identifies one claim of an outbox event. Only the holder of the
// current lease may deliver, reschedule or bury the event.
type Lease struct {
	EventID string
	Token   string
}

// Lease returns the claim this copy of the event was loaded under.
func (e OutboxEvent) Lease() Lease {
	return Lease{EventID: e.ID, Token: e.LeaseID}
}

// TableName specifies the table name for GORM.
func (OutboxEvent) TableName() string {
	return "notification_outbox"
}
