package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an account together with its public profile.
// Matches the users table schema.
type User struct {
	ID            string    `gorm:"primaryKey;column:id;type:varchar(36)"                          json:"id"`
	Email         string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash  string    `gorm:"column:password_hash;type:varchar(255);not null"                json:"-"`
	EmailVerified bool      `gorm:"column:email_verified;not null;default:false"                   json:"email_verified"`
	Name          string    `gorm:"column:name;type:varchar(120);not null"                         json:"name"`
	Bio           string    `gorm:"column:bio;type:text;not null;default:''"                       json:"bio"`
	Department    string    `gorm:"column:department;type:varchar(120);not null;default:''"        json:"department"`
	Year          int       `gorm:"column:year;not null;default:0"                                 json:"year"`
	Skills        []string  `gorm:"column:skills;type:text;serializer:json"                        json:"skills"`
	GitHubURL     string    `gorm:"column:github_url;type:varchar(255);not null;default:''"        json:"github_url"`
	LinkedInURL   string    `gorm:"column:linkedin_url;type:varchar(255);not null;default:''"      json:"linkedin_url"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"                                     json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"                                     json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Profile returns the public view of the user.
func (u *User) Profile() *Profile {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return &Profile{
		ID:          u.ID,
		Name:        u.Name,
		Bio:         u.Bio,
		Department:  u.Department,
		Year:        u.Year,
		Skills:      skills,
		GitHubURL:   u.GitHubURL,
		LinkedInURL: u.LinkedInURL,
	}
}

// Session is an issued sign-in. A token is accepted only while its session is live.
type Session struct {
	ID        string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID    string     `gorm:"column:user_id;type:varchar(36);not null;index:idx_sessions_user_id"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
	CreatedAt time.Time  `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for GORM.
func (Session) TableName() string {
	return "sessions"
}

// Live reports whether the session can still authenticate requests at now.
func (s *Session) Live(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// TokenPurpose tells single-use auth tokens apart.
type TokenPurpose string

// Token purposes.
const (
	PurposeVerifyEmail   TokenPurpose = "verify_email"
	PurposeResetPassword TokenPurpose = "reset_password"
)

// AuthToken is a single-use token mailed to the user.
type AuthToken struct {
	Token     string       `gorm:"primaryKey;column:token;type:varchar(64)"`
	UserID    string       `gorm:"column:user_id;type:varchar(36);not null;index:idx_auth_tokens_user_purpose,priority:1"`
	Purpose   TokenPurpose `gorm:"column:purpose;type:varchar(32);not null;index:idx_auth_tokens_user_purpose,priority:2"`
	ExpiresAt time.Time    `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time   `gorm:"column:used_at"`
	CreatedAt time.Time    `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for GORM.
func (AuthToken) TableName() string {
	return "auth_tokens"
}
