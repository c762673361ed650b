// Package service provides business logic layer for user module.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/festy23/collabase/internal/config"
	"github.com/festy23/collabase/internal/mailer"
	"github.com/festy23/collabase/internal/user/model"
	"github.com/festy23/collabase/internal/user/repository"
)

const siteName = "CollaBase"

// Service defines the interface for identity and profile operations.
type Service interface {
	// SignUp creates an account, signs it in and sends a verification email.
	SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error)

	// SignIn checks credentials and opens a new session.
	SignIn(ctx context.Context, req *model.SignInRequest) (*model.AuthResponse, error)

	// SignOut revokes the session.
	SignOut(ctx context.Context, sessionID string) error

	// VerifyToken resolves a bearer token to its user and live session.
	VerifyToken(ctx context.Context, token string) (userID, sessionID string, err error)

	// CurrentIdentity returns the signed-in user's identity.
	CurrentIdentity(ctx context.Context, userID string) (*model.Identity, error)

	// SendVerificationEmail mails a fresh email verification link.
	SendVerificationEmail(ctx context.Context, userID string) error

	// VerifyEmail redeems a verification token.
	VerifyEmail(ctx context.Context, token string) error

	// SendPasswordResetEmail mails a reset link. Unknown emails are accepted silently.
	SendPasswordResetEmail(ctx context.Context, email string) error

	// ResetPassword redeems a reset token, sets the new password and revokes all sessions.
	ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error

	// GetProfile returns a user's public profile.
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)

	// UpdateProfile replaces the user's editable profile fields.
	UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.Profile, error)
}

type service struct {
	repo     repository.Repository
	mail     mailer.Mailer
	cfg      config.AuthConfig
	signer   tokenSigner
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.SugaredLogger
}

// New creates a new user service instance.
func New(repo repository.Repository, mail mailer.Mailer, cfg config.AuthConfig, logger *zap.SugaredLogger) Service {
	return &service{
		repo:     repo,
		mail:     mail,
		cfg:      cfg,
		signer:   tokenSigner{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL},
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

func (s *service) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Skills:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			s.logger.Debugw("SignUp email already registered", "email", req.Email)
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	// The account exists; a mail failure must not fail sign-up.
	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Warnw("SignUp verification email failed", "user_id", user.ID, "error", err)
	}

	s.logger.Infow("User signed up", "user_id", user.ID)
	return resp, nil
}

func (s *service) SignIn(ctx context.Context, req *model.SignInRequest) (*model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidRequest, err.Error())
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debugw("SignIn wrong password", "user_id", user.ID)
		return nil, model.ErrInvalidCredentials
	}

	resp, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("User signed in", "user_id", user.ID)
	return resp, nil
}

func (s *service) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return model.ErrUnauthenticated
	}
	if err := s.repo.RevokeSession(ctx, sessionID, s.now()); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.logger.Infow("Session revoked", "session_id", sessionID)
	return nil
}

func (s *service) VerifyToken(ctx context.Context, token string) (string, string, error) {
	now := s.now()
	claims, err := s.signer.parse(token, now)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", model.ErrUnauthenticated, err.Error())
	}

	session, err := s.repo.GetSession(ctx, claims.ID)
	if err != nil {
		return "", "", err
	}
	if session.UserID != claims.UserID || !session.Live(now) {
		return "", "", model.ErrUnauthenticated
	}
	return claims.UserID, session.ID, nil
}

func (s *service) CurrentIdentity(ctx context.Context, userID string) (*model.Identity, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return identityOf(user), nil
}

func (s *service) SendVerificationEmail(ctx context.Context, userID string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		s.logger.Debugw("SendVerificationEmail already verified", "user_id", userID)
		return nil
	}
	return s.sendVerification(ctx, user)
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return model.ErrInvalidToken
	}
	consumed, err := s.repo.ConsumeAuthToken(ctx, token, model.PurposeVerifyEmail, s.now())
	if err != nil {
		return err
	}
	if err := s.repo.MarkEmailVerified(ctx, consumed.UserID); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	s.logger.Infow("Email verified", "user_id", consumed.UserID)
	return nil
}

func (s *service) SendPasswordResetEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: %s", model.ErrInvalidRequest, err.Error())
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.logger.Debugw("SendPasswordResetEmail unknown email")
			return nil
		}
		return err
	}

	link, err := s.issueLink(ctx, user.ID, model.PurposeResetPassword, "/reset-password")
	if err != nil {
		return err
	}
	msg := mailer.BuildPasswordResetEmail(user.Email, mailer.LinkEmailData{
		SiteName:  siteName,
		Name:      user.Name,
		Link:      link,
		ExpiresIn: s.cfg.EmailTokenTTL.String(),
	})
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", model.ErrInvalidRequest, err.Error())
	}

	now := s.now()
	consumed, err := s.repo.ConsumeAuthToken(ctx, req.Token, model.PurposeResetPassword, now)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, consumed.UserID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.repo.RevokeUserSessions(ctx, consumed.UserID, now); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.logger.Infow("Password reset", "user_id", consumed.UserID)
	return nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, model.ErrUserNotFound
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

func (s *service) UpdateProfile(
	ctx context.Context,
	userID string,
	req *model.UpdateProfileRequest,
) (*model.Profile, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidRequest, err.Error())
	}

	user, err := s.repo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	s.logger.Debugw("Profile updated", "user_id", userID)
	return user.Profile(), nil
}

func (s *service) openSession(ctx context.Context, user *model.User) (*model.AuthResponse, error) {
	now := s.now()
	sessionID := uuid.NewString()

	token, expiresAt, err := s.signer.sign(user.ID, user.Email, sessionID, now)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &model.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  *identityOf(user),
	}, nil
}

func (s *service) sendVerification(ctx context.Context, user *model.User) error {
	link, err := s.issueLink(ctx, user.ID, model.PurposeVerifyEmail, "/verify-email")
	if err != nil {
		return err
	}
	msg := mailer.BuildVerificationEmail(user.Email, mailer.LinkEmailData{
		SiteName:  siteName,
		Name:      user.Name,
		Link:      link,
		ExpiresIn: s.cfg.EmailTokenTTL.String(),
	})
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *service) issueLink(ctx context.Context, userID string, purpose model.TokenPurpose, path string) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	if err := s.repo.CreateAuthToken(ctx, &model.AuthToken{
		Token:     token,
		UserID:    userID,
		Purpose:   purpose,
		ExpiresAt: now.Add(s.cfg.EmailTokenTTL),
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("failed to store %s token: %w", purpose, err)
	}

	return strings.TrimRight(s.cfg.BaseURL, "/") + path + "?token=" + url.QueryEscape(token), nil
}

func identityOf(user *model.User) *model.Identity {
	return &model.Identity{
		UserID:        user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
