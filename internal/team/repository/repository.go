// Package repository provides data access layer for team module.
// Every mutation is a field-scoped statement; teams are never rewritten whole.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	teamModel "github.com/festy23/collabase/internal/team/model"
)

// Repository defines the interface for team data access operations.
type Repository interface {
	// Create inserts a team together with its lead member.
	Create(ctx context.Context, team *teamModel.Team, lead *teamModel.Member) error

	// GetByID finds a team with members and application records.
	GetByID(ctx context.Context, teamID string) (*teamModel.Team, error)

	// List returns teams newest first.
	List(ctx context.Context, filter teamModel.ListFilter) ([]teamModel.Team, error)

	// ListByCreator returns teams created by userID.
	ListByCreator(ctx context.Context, userID string) ([]teamModel.Team, error)

	// ListByMember returns teams that have userID as a member.
	ListByMember(ctx context.Context, userID string) ([]teamModel.Team, error)

	// ListByApplicant returns teams that hold an application record of userID.
	ListByApplicant(ctx context.Context, userID string) ([]teamModel.Team, error)

	// UpdateMetadata overwrites title, description, category and skills.
	UpdateMetadata(ctx context.Context, teamID string, req *teamModel.UpdateTeamRequest) error

	// Delete removes a team with its members and applications.
	Delete(ctx context.Context, teamID string) error

	// SetWhatsAppLink overwrites the chat link; nil clears it.
	SetWhatsAppLink(ctx context.Context, teamID string, link *string) error

	// GetApplication finds the application record of (team, user).
	GetApplication(ctx context.Context, teamID, userID string) (*teamModel.Application, error)

	// InsertApplication inserts a new pending record. Returns ErrAlreadyApplied on a duplicate pair.
	InsertApplication(ctx context.Context, app *teamModel.Application) error

	// ReopenApplication moves a rejected or withdrawn record back to pending.
	ReopenApplication(ctx context.Context, teamID, userID string, now time.Time) (bool, error)

	// TransitionApplication moves a record from one status to another if it is still in from.
	TransitionApplication(ctx context.Context, teamID, userID string, from, to teamModel.Status, now time.Time) (bool, error)

	// DeleteApplication removes the application record of (team, user).
	DeleteApplication(ctx context.Context, teamID, userID string) error

	// ClaimSeat increments current_members if a seat is free.
	ClaimSeat(ctx context.Context, teamID string) (bool, error)

	// ReleaseSeat decrements current_members, never below the lead's seat.
	ReleaseSeat(ctx context.Context, teamID string) (bool, error)

	// ResyncSeats sets current_members to the number of member rows.
	ResyncSeats(ctx context.Context, teamID string) (int, error)

	// AddMember inserts a member row. Returns ErrAlreadyMember on a duplicate.
	AddMember(ctx context.Context, member *teamModel.Member) error

	// RemoveMember deletes a member row.
	RemoveMember(ctx context.Context, teamID, userID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new team repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

func (r *repository) Create(ctx context.Context, team *teamModel.Team, lead *teamModel.Member) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(team).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return err
	}
	team.Members = []teamModel.Member{*lead}
	team.Applications = []teamModel.Application{}
	return nil
}

func (r *repository) GetByID(ctx context.Context, teamID string) (*teamModel.Team, error) {
	var team teamModel.Team
	err := r.withRelations(ctx).Where("id = ?", teamID).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *repository) List(ctx context.Context, filter teamModel.ListFilter) ([]teamModel.Team, error) {
	query := r.withRelations(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OpenOnly {
		query = query.Where("current_members < team_size")
	}
	return r.find(query)
}

func (r *repository) ListByCreator(ctx context.Context, userID string) ([]teamModel.Team, error) {
	return r.find(r.withRelations(ctx).Where("created_by = ?", userID))
}

func (r *repository) ListByMember(ctx context.Context, userID string) ([]teamModel.Team, error) {
	sub := r.db.Model(&teamModel.Member{}).Select("team_id").Where("user_id = ?", userID)
	return r.find(r.withRelations(ctx).Where("id IN (?)", sub))
}

func (r *repository) ListByApplicant(ctx context.Context, userID string) ([]teamModel.Team, error) {
	sub := r.db.Model(&teamModel.Application{}).Select("team_id").Where("user_id = ?", userID)
	return r.find(r.withRelations(ctx).Where("id IN (?)", sub))
}

func (r *repository) find(query *gorm.DB) ([]teamModel.Team, error) {
	var teams []teamModel.Team
	if err := query.Order("created_at DESC").Find(&teams).Error; err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []teamModel.Team{}
	}
	return teams, nil
}

func (r *repository) UpdateMetadata(ctx context.Context, teamID string, req *teamModel.UpdateTeamRequest) error {
	skills := req.SkillsNeeded
	if skills == nil {
		skills = []string{}
	}
	result := r.db.WithContext(ctx).
		Model(&teamModel.Team{ID: teamID}).
		Select("title", "description", "category", "skills_needed", "updated_at").
		Updates(&teamModel.Team{
			Title:        req.Title,
			Description:  req.Description,
			Category:     req.Category,
			SkillsNeeded: skills,
			UpdatedAt:    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrTeamNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, teamID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("team_id = ?", teamID).Delete(&teamModel.Application{}).Error; err != nil {
		return err
	}
	if err := db.Where("team_id = ?", teamID).Delete(&teamModel.Member{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", teamID).Delete(&teamModel.Team{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrTeamNotFound
	}
	return nil
}

func (r *repository) SetWhatsAppLink(ctx context.Context, teamID string, link *string) error {
	result := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("id = ?", teamID).
		Updates(map[string]interface{}{"whatsapp_link": link, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrTeamNotFound
	}
	return nil
}

func (r *repository) GetApplication(ctx context.Context, teamID, userID string) (*teamModel.Application, error) {
	var app teamModel.Application
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *repository) InsertApplication(ctx context.Context, app *teamModel.Application) error {
	err := r.db.WithContext(ctx).Create(app).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return teamModel.ErrAlreadyApplied
	}
	return err
}

func (r *repository) ReopenApplication(ctx context.Context, teamID, userID string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&teamModel.Application{}).
		Where("team_id = ? AND user_id = ? AND status IN ?", teamID, userID,
			[]teamModel.Status{teamModel.StatusRejected, teamModel.StatusWithdrawn}).
		Updates(map[string]interface{}{
			"status":     teamModel.StatusPending,
			"created_at": now,
			"updated_at": now,
			"decided_at": nil,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) TransitionApplication(
	ctx context.Context,
	teamID, userID string,
	from, to teamModel.Status,
	now time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&teamModel.Application{}).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": now,
			"decided_at": now,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) DeleteApplication(ctx context.Context, teamID, userID string) error {
	return r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamModel.Application{}).Error
}

// ClaimSeat is the compare-and-increment that keeps current_members within team_size
// under concurrent accepts.
func (r *repository) ClaimSeat(ctx context.Context, teamID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("id = ? AND current_members < team_size", teamID).
		Updates(map[string]interface{}{
			"current_members": gorm.Expr("current_members + 1"),
			"updated_at":      time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) ReleaseSeat(ctx context.Context, teamID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("id = ? AND current_members > 1", teamID).
		Updates(map[string]interface{}{
			"current_members": gorm.Expr("current_members - 1"),
			"updated_at":      time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) ResyncSeats(ctx context.Context, teamID string) (int, error) {
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&teamModel.Member{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
		return 0, err
	}
	err := db.Model(&teamModel.Team{}).
		Where("id = ?", teamID).
		Updates(map[string]interface{}{
			"current_members": count,
			"updated_at":      time.Now().UTC(),
		}).Error
	return int(count), err
}

func (r *repository) AddMember(ctx context.Context, member *teamModel.Member) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return teamModel.ErrAlreadyMember
	}
	return err
}

func (r *repository) RemoveMember(ctx context.Context, teamID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamModel.Member{})
	return result.RowsAffected > 0, result.Error
}
