// Package repository provides data access layer for user module.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/festy23/collabase/internal/user/model"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	// Create inserts a new user. Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *model.User) error

	// GetByID finds user by id.
	GetByID(ctx context.Context, userID string) (*model.User, error)

	// GetByEmail finds user by lower-cased email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateProfile overwrites the editable profile columns.
	UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.User, error)

	// MarkEmailVerified sets email_verified for the user.
	MarkEmailVerified(ctx context.Context, userID string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// CreateSession stores an issued session.
	CreateSession(ctx context.Context, session *model.Session) error

	// GetSession finds a session by id.
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)

	// RevokeSession marks one session revoked. Revoking twice is a no-op.
	RevokeSession(ctx context.Context, sessionID string, at time.Time) error

	// RevokeUserSessions revokes every live session of a user.
	RevokeUserSessions(ctx context.Context, userID string, at time.Time) error

	// CreateAuthToken stores a single-use email token.
	CreateAuthToken(ctx context.Context, token *model.AuthToken) error

	// ConsumeAuthToken marks an unused, unexpired token used and returns it.
	ConsumeAuthToken(ctx context.Context, token string, purpose model.TokenPurpose, now time.Time) (*model.AuthToken, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new user repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrEmailTaken
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateProfile(
	ctx context.Context,
	userID string,
	req *model.UpdateProfileRequest,
) (*model.User, error) {
	var user *model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skills := req.Skills
		if skills == nil {
			skills = []string{}
		}
		result := tx.Model(&model.User{ID: userID}).
			Select("name", "bio", "department", "year", "skills", "github_url", "linkedin_url", "updated_at").
			Updates(&model.User{
				Name:        req.Name,
				Bio:         req.Bio,
				Department:  req.Department,
				Year:        req.Year,
				Skills:      skills,
				GitHubURL:   req.GitHubURL,
				LinkedInURL: req.LinkedInURL,
				UpdatedAt:   time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return model.ErrUserNotFound
		}

		var updated model.User
		if err := tx.Where("id = ?", userID).First(&updated).Error; err != nil {
			return err
		}
		user = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) MarkEmailVerified(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"email_verified": true, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"password_hash": passwordHash, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *repository) CreateSession(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repository) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUnauthenticated
		}
		return nil, err
	}
	return &session, nil
}

func (r *repository) RevokeSession(ctx context.Context, sessionID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", at).Error
}

func (r *repository) RevokeUserSessions(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at).Error
}

func (r *repository) CreateAuthToken(ctx context.Context, token *model.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// ConsumeAuthToken uses a conditional update so a token can be redeemed once even under concurrent requests.
func (r *repository) ConsumeAuthToken(
	ctx context.Context,
	token string,
	purpose model.TokenPurpose,
	now time.Time,
) (*model.AuthToken, error) {
	var consumed *model.AuthToken
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.AuthToken{}).
			Where("token = ? AND purpose = ? AND used_at IS NULL AND expires_at > ?", token, purpose, now).
			Update("used_at", now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return model.ErrInvalidToken
		}

		var row model.AuthToken
		if err := tx.Where("token = ?", token).First(&row).Error; err != nil {
			return err
		}
		consumed = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consumed, nil
}
