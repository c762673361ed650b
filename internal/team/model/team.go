package model

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

// Member roles.
const (
	RoleLead   = "Team Lead"
	RoleMember = "Member"
)

// Team is the aggregate root of the lifecycle engine.
// Matches the teams table schema.
type Team struct {
	ID             string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Title          string    `gorm:"column:title;type:varchar(120);not null"`
	Description    string    `gorm:"column:description;type:text;not null;default:''"`
	Category       string    `gorm:"column:category;type:varchar(64);not null;index:idx_teams_category"`
	SkillsNeeded   []string  `gorm:"column:skills_needed;type:text;serializer:json"`
	TeamSize       int       `gorm:"column:team_size;not null"`
	CurrentMembers int       `gorm:"column:current_members;not null"`
	CreatedBy      string    `gorm:"column:created_by;type:varchar(36);not null;index:idx_teams_created_by"`
	WhatsAppLink   *string   `gorm:"column:whatsapp_link;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index:idx_teams_created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`

	Members      []Member      `gorm:"foreignKey:TeamID;references:ID"`
	Applications []Application `gorm:"foreignKey:TeamID;references:ID"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Team) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsFull reports whether no seat is left.
func (t *Team) IsFull() bool {
	return t.CurrentMembers >= t.TeamSize
}

// HasMember reports whether userID is in the member list.
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// ApplicationOf returns the user's application record, or nil.
func (t *Team) ApplicationOf(userID string) *Application {
	for i := range t.Applications {
		if t.Applications[i].UserID == userID {
			return &t.Applications[i]
		}
	}
	return nil
}

// PendingApplicants returns the ids of pending applicants in submission order.
func (t *Team) PendingApplicants() []string {
	ids := []string{}
	for _, a := range sortedApplications(t.Applications) {
		if a.Status == StatusPending {
			ids = append(ids, a.UserID)
		}
	}
	return ids
}

// Member is one seat on a team.
type Member struct {
	TeamID   string    `gorm:"primaryKey;column:team_id;type:varchar(36)"                          json:"-"`
	UserID   string    `gorm:"primaryKey;column:user_id;type:varchar(36);index:idx_team_members_user_id" json:"user_id"`
	Name     string    `gorm:"column:name;type:varchar(120);not null"                              json:"name"`
	Role     string    `gorm:"column:role;type:varchar(32);not null"                               json:"role"`
	Skills   []string  `gorm:"column:skills;type:text;serializer:json"                             json:"skills"`
	JoinedAt time.Time `gorm:"column:joined_at;not null"                                           json:"joined_at"`
}

// TableName specifies the table name for GORM.
func (Member) TableName() string {
	return "team_members"
}

// Application is the explicit record of a user's application to a team.
type Application struct {
	ID        string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	TeamID    string     `gorm:"column:team_id;type:varchar(36);not null;uniqueIndex:uq_team_applications_team_user,priority:1"`
	UserID    string     `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:uq_team_applications_team_user,priority:2;index:idx_team_applications_user_id"`
	Status    Status     `gorm:"column:status;type:varchar(16);not null"`
	CreatedAt time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"`
	DecidedAt *time.Time `gorm:"column:decided_at"`
}

// TableName specifies the table name for GORM.
func (Application) TableName() string {
	return "team_applications"
}

func sortedApplications(apps []Application) []Application {
	sorted := make([]Application, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}
