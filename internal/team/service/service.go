// Package service provides business logic layer for team module.
//
// Every lifecycle transition runs in one transaction that also enqueues the
// notification event describing it. Change signals and the relay kick are
// sent after commit.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/collabase/internal/live"
	notificationModel "github.com/festy23/collabase/internal/notification/model"
	notificationRepository "github.com/festy23/collabase/internal/notification/repository"
	teamModel "github.com/festy23/collabase/internal/team/model"
	"github.com/festy23/collabase/internal/team/projection"
	"github.com/festy23/collabase/internal/team/repository"
	userModel "github.com/festy23/collabase/internal/user/model"
)

// ProfileLookup resolves user profiles for member snapshots.
type ProfileLookup interface {
	GetProfile(ctx context.Context, userID string) (*userModel.Profile, error)
}

// Publisher receives change signals after a team mutation commits.
type Publisher interface {
	Publish(topics ...string)
}

// Kicker wakes the notification relay.
type Kicker interface {
	Kick()
}

// Service defines the interface for team business logic operations.
type Service interface {
	// CreateTeam posts a team listing with the actor as its lead.
	CreateTeam(ctx context.Context, actorID string, req *teamModel.CreateTeamRequest) (*teamModel.TeamResponse, error)

	// GetTeam returns a team as seen by viewerID.
	GetTeam(ctx context.Context, viewerID, teamID string) (*teamModel.TeamResponse, error)

	// ListTeams returns teams newest first.
	ListTeams(ctx context.Context, viewerID string, filter teamModel.ListFilter) ([]teamModel.TeamResponse, error)

	// UpdateTeam replaces the team's metadata. Creator only.
	UpdateTeam(ctx context.Context, actorID, teamID string, req *teamModel.UpdateTeamRequest) (*teamModel.TeamResponse, error)

	// DeleteTeam removes the team with its members and applications. Creator only.
	DeleteTeam(ctx context.Context, actorID, teamID string) error

	// SubmitApplication files a pending application of applicantID.
	SubmitApplication(ctx context.Context, teamID, applicantID string) (*teamModel.TeamResponse, error)

	// WithdrawApplication withdraws the applicant's pending application.
	WithdrawApplication(ctx context.Context, teamID, applicantID string) (*teamModel.TeamResponse, error)

	// AcceptApplication moves a pending applicant into the members. Creator only.
	AcceptApplication(
		ctx context.Context,
		teamID, actorID, applicantID string,
		snapshot teamModel.ApplicantSnapshot,
	) (*teamModel.TeamResponse, error)

	// RejectApplication rejects a pending application. Creator only.
	RejectApplication(
		ctx context.Context,
		teamID, actorID, applicantID string,
		snapshot teamModel.ApplicantSnapshot,
	) (*teamModel.TeamResponse, error)

	// RemoveMember removes a non-lead member. Creator only.
	RemoveMember(ctx context.Context, teamID, actorID, memberID string) (*teamModel.TeamResponse, error)

	// SetWhatsAppLink sets or clears the group chat link. Creator only.
	SetWhatsAppLink(ctx context.Context, teamID, actorID, link string) (*teamModel.TeamResponse, error)

	// MyApplications lists the user's applications with their status.
	MyApplications(ctx context.Context, userID string) ([]teamModel.ApplicationView, error)

	// TeamsCreatedBy lists the teams the user created.
	TeamsCreatedBy(ctx context.Context, userID string) ([]teamModel.TeamResponse, error)

	// TeamsMemberOf lists the teams the user joined, excluding their own.
	TeamsMemberOf(ctx context.Context, userID string) ([]teamModel.TeamResponse, error)
}

type service struct {
	repo      repository.Repository
	db        *gorm.DB
	profiles  ProfileLookup
	publisher Publisher
	kicker    Kicker
	validate  *validator.Validate
	policy    *bluemonday.Policy
	now       func() time.Time
	logger    *zap.SugaredLogger
}

// New creates a new team service instance. publisher and kicker may be nil.
func New(
	repo repository.Repository,
	db *gorm.DB,
	profiles ProfileLookup,
	publisher Publisher,
	kicker Kicker,
	logger *zap.SugaredLogger,
) Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &service{
		repo:      repo,
		db:        db,
		profiles:  profiles,
		publisher: publisher,
		kicker:    kicker,
		validate:  validator.New(),
		policy:    bluemonday.StrictPolicy(),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	teams  repository.Repository
	outbox notificationRepository.Repository
}

func (s *service) inTx(ctx context.Context, fn func(r txRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos{
			teams:  repository.New(tx),
			outbox: notificationRepository.New(tx),
		})
	})
}

// committed signals subscribers and wakes the relay once a mutation is durable.
func (s *service) committed(teamID string, enqueued bool) {
	if s.publisher != nil {
		s.publisher.Publish(live.TeamsTopic, live.TeamTopic(teamID))
	}
	if enqueued && s.kicker != nil {
		s.kicker.Kick()
	}
}

func (s *service) sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

func (s *service) sanitizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if clean := s.sanitize(skill); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func (s *service) invalid(err error) error {
	return fmt.Errorf("%w: %s", teamModel.ErrInvalidRequest, err.Error())
}

// profile returns the user's profile, or an empty one for unknown users.
func (s *service) profile(ctx context.Context, userID string) (*userModel.Profile, error) {
	if s.profiles == nil {
		return &userModel.Profile{ID: userID, Skills: []string{}}, nil
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, userModel.ErrUserNotFound) {
			return &userModel.Profile{ID: userID, Skills: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

func (s *service) view(ctx context.Context, viewerID, teamID string) (*teamModel.TeamResponse, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	resp := teamModel.NewTeamResponse(team, viewerID)
	return &resp, nil
}

func (s *service) CreateTeam(
	ctx context.Context,
	actorID string,
	req *teamModel.CreateTeamRequest,
) (*teamModel.TeamResponse, error) {
	clean := teamModel.CreateTeamRequest{
		Title:        s.sanitize(req.Title),
		Description:  s.sanitize(req.Description),
		Category:     s.sanitize(req.Category),
		SkillsNeeded: s.sanitizeSkills(req.SkillsNeeded),
		TeamSize:     req.TeamSize,
	}
	if err := s.validate.Struct(&clean); err != nil {
		return nil, s.invalid(err)
	}
	link, err := teamModel.NormalizeWhatsAppLink(req.WhatsAppLink)
	if err != nil {
		return nil, err
	}

	lead, err := s.profile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	team := &teamModel.Team{
		ID:             uuid.NewString(),
		Title:          clean.Title,
		Description:    clean.Description,
		Category:       clean.Category,
		SkillsNeeded:   clean.SkillsNeeded,
		TeamSize:       clean.TeamSize,
		CurrentMembers: 1,
		CreatedBy:      actorID,
		WhatsAppLink:   link,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	member := &teamModel.Member{
		TeamID:   team.ID,
		UserID:   actorID,
		Name:     lead.Name,
		Role:     teamModel.RoleLead,
		Skills:   lead.Skills,
		JoinedAt: now,
	}

	err = s.inTx(ctx, func(r txRepos) error {
		return r.teams.Create(ctx, team, member)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.Infow("Team created", "team_id", team.ID, "created_by", actorID, "team_size", team.TeamSize)
	s.committed(team.ID, false)

	resp := teamModel.NewTeamResponse(team, actorID)
	return &resp, nil
}

func (s *service) GetTeam(ctx context.Context, viewerID, teamID string) (*teamModel.TeamResponse, error) {
	return s.view(ctx, viewerID, teamID)
}

func (s *service) ListTeams(
	ctx context.Context,
	viewerID string,
	filter teamModel.ListFilter,
) ([]teamModel.TeamResponse, error) {
	teams, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teamModel.NewTeamResponses(teams, viewerID), nil
}

func (s *service) UpdateTeam(
	ctx context.Context,
	actorID, teamID string,
	req *teamModel.UpdateTeamRequest,
) (*teamModel.TeamResponse, error) {
	clean := teamModel.UpdateTeamRequest{
		Title:        s.sanitize(req.Title),
		Description:  s.sanitize(req.Description),
		Category:     s.sanitize(req.Category),
		SkillsNeeded: s.sanitizeSkills(req.SkillsNeeded),
	}
	if err := s.validate.Struct(&clean); err != nil {
		return nil, s.invalid(err)
	}

	err := s.inTx(ctx, func(r txRepos) error {
		team, err := r.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if team.CreatedBy != actorID {
			return teamModel.ErrForbidden
		}
		return r.teams.UpdateMetadata(ctx, teamID, &clean)
	})
	if err != nil {
		return nil, err
	}

	s.committed(teamID, false)
	return s.view(ctx, actorID, teamID)
}

func (s *service) DeleteTeam(ctx context.Context, actorID, teamID string) error {
	err := s.inTx(ctx, func(r txRepos) error {
		team, err := r.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if team.CreatedBy != actorID {
			return teamModel.ErrForbidden
		}
		return r.teams.Delete(ctx, teamID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("Team deleted", "team_id", teamID, "deleted_by", actorID)
	s.committed(teamID, false)
	return nil
}

func (s *service) SubmitApplication(ctx context.Context, teamID, applicantID string) (*teamModel.TeamResponse, error) {
	applicant, err := s.profile(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.inTx(ctx, func(r txRepos) error {
		team, err := r.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if _, err := teamModel.Transition(teamModel.RelationOf(team, applicantID), teamModel.ActionSubmit); err != nil {
			return err
		}

		_, err = r.teams.GetApplication(ctx, teamID, applicantID)
		switch {
		case err == nil:
			reopened, err := r.teams.ReopenApplication(ctx, teamID, applicantID, now)
			if err != nil {
				return err
			}
			if !reopened {
				return teamModel.ErrAlreadyApplied
			}
		case errors.Is(err, teamModel.ErrApplicationNotFound):
			err := r.teams.InsertApplication(ctx, &teamModel.Application{
				ID:        uuid.NewString(),
				TeamID:    teamID,
				UserID:    applicantID,
				Status:    teamModel.StatusPending,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
		default:
			return err
		}

		return r.outbox.Enqueue(ctx, event(notificationModel.EventApplicationSubmitted, team, applicantID, applicant.Name, now))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Application submitted", "team_id", teamID, "applicant_id", applicantID)
	s.committed(teamID, true)
	return s.view(ctx, applicantID, teamID)
}

func (s *service) WithdrawApplication(ctx context.Context, teamID, applicantID string) (*teamModel.TeamResponse, error) {
	now := s.now()
	err := s.inTx(ctx, func(r txRepos) error {
		team, err := r.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if err := s.decide(ctx, r, teamID, applicantID, teamModel.ActionWithdraw, now); err != nil {
			return err
		}
		return r.outbox.Enqueue(ctx, event(notificationModel.EventApplicationWithdrawn, team, applicantID, "", now))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Application withdrawn", "team_id", teamID, "applicant_id", applicantID)
	s.committed(teamID, true)
	return s.view(ctx, applicantID, teamID)
}

// decide applies action to the pending application of (teamID, userID) as a
// conditional update. A record that is no longer pending yields ErrNotPending.
func (s *service) decide(
	ctx context.Context,
	r txRepos,
	teamID, userID string,
	action teamModel.Action,
	now time.Time,
) error {
	to, err := teamModel.Transition(teamModel.StatusPending, action)
	if err != nil {
		return err
	}
	moved, err := r.teams.TransitionApplication(ctx, teamID, userID, teamModel.StatusPending, to, now)
	if err != nil {
		return err
	}
	if !moved {
		return teamModel.ErrNotPending
	}
	return nil
}

func (s *service) snapshot(
	ctx context.Context,
	applicantID string,
	snap teamModel.ApplicantSnapshot,
) (teamModel.ApplicantSnapshot, error) {
	if snap.Name != "" && snap.Skills != nil {
		return snap, nil
	}
	p, err := s.profile(ctx, applicantID)
	if err != nil {
		return snap, err
	}
	if snap.Name == "" {
		snap.Name = p.Name
	}
	if snap.Skills == nil {
		snap.Skills = p.Skills
	}
	return snap, nil
}

func (s *service) AcceptApplication(
	ctx context.Context,
	teamID, actorID, applicantID string,
	snap teamModel.ApplicantSnapshot,
) (*teamModel.TeamResponse, error) {
	snap, err := s.snapshot(ctx, applicantID, snap)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.inTx(ctx, func(r txRepos) error {
		team, err := r.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if team.CreatedBy != actorID {
			return teamModel.ErrForbidden
		}
		if err := s.decide(ctx, r, teamID, applicantID, teamModel.ActionAccept, now); err != nil {
			return err
		}

		claimed, err := r.teams.ClaimSeat(ctx, teamID)
		if err != nil {
			return err
		}
		if !claimed {
			return teamModel.ErrTeamFull
		}

		err = r.teams.AddMember(ctx, &teamModel.Member{
			TeamID:   teamID,
			UserID:   applicantID,
			Name:     s.sanitize(snap.Name),
			Role:     teamModel.RoleMember,
			Skills:   s.sanitizeSkills(snap.Skills),
			JoinedAt: now,
		})
		if err != nil {
			return err
		}

		return r.outbox.Enqueue(ctx, event(notificationModel.EventApplicationAccepted, team, applicantID, snap.Name, now))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Application accepted", "team_id", teamID, "applicant_id", applicantID)
	s.committed(teamID, true)
	return s.view(ctx, actorID, teamID)
}

func (s *service) RejectApplication(
	ctx context.Context,
	teamID, actorID, applicantID string,
	snap teamModel.ApplicantSnapshot,
) (*teamModel.TeamResponse, error) {
	snap, err := s.snapshot(ctx, applicantID, snap)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.inTx(ctx, func(r txRepos) error {
		team, err := r.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if team.CreatedBy != actorID {
			return teamModel.ErrForbidden
		}
		if err := s.decide(ctx, r, teamID, applicantID, teamModel.ActionReject, now); err != nil {
			return err
		}
		return r.outbox.Enqueue(ctx, event(notificationModel.EventApplicationRejected, team, applicantID, snap.Name, now))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Application rejected", "team_id", teamID, "applicant_id", applicantID)
	s.committed(teamID, true)
	return s.view(ctx, actorID, teamID)
}

func (s *service) RemoveMember(ctx context.Context, teamID, actorID, memberID string) (*teamModel.TeamResponse, error) {
	err := s.inTx(ctx, func(r txRepos) error {
		team, err := r.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if team.CreatedBy != actorID {
			return teamModel.ErrForbidden
		}
		if memberID == team.CreatedBy {
			return teamModel.ErrCannotRemoveLead
		}
		if _, err := teamModel.Transition(teamModel.RelationOf(team, memberID), teamModel.ActionRemove); err != nil {
			return err
		}

		removed, err := r.teams.RemoveMember(ctx, teamID, memberID)
		if err != nil {
			return err
		}
		if !removed {
			return teamModel.ErrNotMember
		}
		released, err := r.teams.ReleaseSeat(ctx, teamID)
		if err != nil {
			return err
		}
		if !released {
			seats, err := r.teams.ResyncSeats(ctx, teamID)
			if err != nil {
				return err
			}
			s.logger.Errorw("Seat counter out of sync with members, recounted",
				"team_id", teamID,
				"member_id", memberID,
				"recorded", team.CurrentMembers,
				"current_members", seats,
			)
		}
		return r.teams.DeleteApplication(ctx, teamID, memberID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Member removed", "team_id", teamID, "member_id", memberID)
	s.committed(teamID, false)
	return s.view(ctx, actorID, teamID)
}

func (s *service) SetWhatsAppLink(ctx context.Context, teamID, actorID, raw string) (*teamModel.TeamResponse, error) {
	link, err := teamModel.NormalizeWhatsAppLink(raw)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(r txRepos) error {
		team, err := r.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if team.CreatedBy != actorID {
			return teamModel.ErrForbidden
		}
		return r.teams.SetWhatsAppLink(ctx, teamID, link)
	})
	if err != nil {
		return nil, err
	}

	s.committed(teamID, false)
	return s.view(ctx, actorID, teamID)
}

func (s *service) MyApplications(ctx context.Context, userID string) ([]teamModel.ApplicationView, error) {
	teams, err := s.repo.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return projection.MyApplications(teams, userID), nil
}

func (s *service) TeamsCreatedBy(ctx context.Context, userID string) ([]teamModel.TeamResponse, error) {
	teams, err := s.repo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list created teams: %w", err)
	}
	return teamModel.NewTeamResponses(projection.CreatedBy(teams, userID), userID), nil
}

func (s *service) TeamsMemberOf(ctx context.Context, userID string) ([]teamModel.TeamResponse, error) {
	teams, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member teams: %w", err)
	}
	return teamModel.NewTeamResponses(projection.MemberOf(teams, userID), userID), nil
}

func event(
	typ notificationModel.EventType,
	team *teamModel.Team,
	applicantID, applicantName string,
	now time.Time,
) notificationModel.LifecycleEvent {
	ev := notificationModel.LifecycleEvent{
		Type:          typ,
		TeamID:        team.ID,
		TeamName:      team.Title,
		CreatorID:     team.CreatedBy,
		ApplicantID:   applicantID,
		ApplicantName: applicantName,
		OccurredAt:    now,
	}
	if team.WhatsAppLink != nil {
		ev.WhatsAppLink = *team.WhatsAppLink
	}
	return ev
}
