// Package model defines notification entities, lifecycle events and the outbox record.
package model

import "time"

// NotificationType enumerates durable notification kinds.
type NotificationType string

// Durable notification types.
const (
	TypeNewApplication      NotificationType = "new_application"
	TypeApplicationAccepted NotificationType = "application_accepted"
	TypeApplicationRejected NotificationType = "application_rejected"
)

// Notification is a durable, append-only feed entry owned by its recipient.
type Notification struct {
	ID        string            `gorm:"primaryKey;column:id;type:varchar(36)"                                   json:"id"`
	UserID    string            `gorm:"column:user_id;type:varchar(36);not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	Type      NotificationType  `gorm:"column:type;type:varchar(32);not null"                                   json:"type"`
	Title     string            `gorm:"column:title;type:varchar(255);not null"                                 json:"title"`
	Message   string            `gorm:"column:message;type:text;not null"                                       json:"message"`
	Data      map[string]string `gorm:"column:data;type:text;serializer:json"                                   json:"data"`
	Read      bool              `gorm:"column:read;not null;default:false"                                      json:"read"`
	CreatedAt time.Time         `gorm:"column:created_at;not null;index:idx_notifications_user_created,priority:2,sort:desc" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

// DashboardType enumerates dashboard prompt kinds.
type DashboardType string

// Dashboard notification types.
const (
	DashboardAccepted       DashboardType = "accepted"
	DashboardRejected       DashboardType = "rejected"
	DashboardNewApplication DashboardType = "new_application"
)

// DashboardNotification is an ephemeral prompt. At most one row exists per
// (recipient, team, type); dismissal deletes the row.
type DashboardNotification struct {
	ID        string        `gorm:"primaryKey;column:id;type:varchar(128)"                                       json:"id"`
	UserID    string        `gorm:"column:user_id;type:varchar(36);not null;index:idx_dashboard_notifications_user_created,priority:1" json:"user_id"`
	Type      DashboardType `gorm:"column:type;type:varchar(32);not null"                                        json:"type"`
	TeamID    string        `gorm:"column:team_id;type:varchar(36);not null"                                     json:"team_id"`
	TeamName  string        `gorm:"column:team_name;type:varchar(120);not null"                                  json:"team_name"`
	Message   string        `gorm:"column:message;type:text;not null"                                            json:"message"`
	Dismissed bool          `gorm:"column:dismissed;not null;default:false"                                      json:"dismissed"`
	CreatedAt time.Time     `gorm:"column:created_at;not null;index:idx_dashboard_notifications_user_created,priority:2,sort:desc" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (DashboardNotification) TableName() string {
	return "dashboard_notifications"
}

// DashboardID derives the de-duplication key of a dashboard notification.
func DashboardID(userID, teamID string, typ DashboardType) string {
	return userID + "_" + teamID + "_" + string(typ)
}
