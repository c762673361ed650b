// Package handler provides HTTP handlers for identity and profile endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/middleware"
	"github.com/festy23/collabase/internal/response"
	"github.com/festy23/collabase/internal/user/model"
	"github.com/festy23/collabase/internal/user/service"
)

// Handler handles HTTP requests for identity and profile endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new user handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// SignUp handles POST /auth/signup request.
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.SignUpRequest true "Request"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "EMAIL_TAKEN"
// @Router /auth/signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.SignUp(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "error signing up")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SignIn handles POST /auth/signin request.
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.SignInRequest true "Request"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/signin [post]
func (h *Handler) SignIn(c *gin.Context) {
	var req model.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.SignIn(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "error signing in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SignOut handles POST /auth/signout request.
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.handleError(c, err, "error signing out")
		return
	}
	c.Status(http.StatusNoContent)
}

// Me handles GET /auth/me request.
func (h *Handler) Me(c *gin.Context) {
	identity, err := h.service.CurrentIdentity(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error loading identity")
		return
	}
	c.JSON(http.StatusOK, identity)
}

// SendVerification handles POST /auth/verify/send request.
func (h *Handler) SendVerification(c *gin.Context) {
	if err := h.service.SendVerificationEmail(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.handleError(c, err, "error sending verification email")
		return
	}
	c.Status(http.StatusAccepted)
}

// VerifyEmail handles POST /auth/verify request.
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req model.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.handleError(c, err, "error verifying email")
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPasswordReset handles POST /auth/password/reset request.
// Always answers 202 for well-formed emails so accounts cannot be enumerated.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req model.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.SendPasswordResetEmail(c.Request.Context(), req.Email); err != nil {
		h.handleError(c, err, "error sending password reset email")
		return
	}
	c.Status(http.StatusAccepted)
}

// ConfirmPasswordReset handles POST /auth/password/confirm request.
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		h.handleError(c, err, "error resetting password")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfile handles GET /users/:id request.
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "error loading profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /users/me request.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		h.handleError(c, err, "error updating profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) handleError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", "email already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid email or password")
	case errors.Is(err, model.ErrUnauthenticated):
		response.Unauthorized(c, "invalid or expired session")
	case errors.Is(err, model.ErrInvalidToken):
		response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "invalid or expired token")
	case errors.Is(err, model.ErrUserNotFound):
		response.NotFound(c, "user not found")
	default:
		h.logger.Errorw(logMsg, "error", err, "path", c.Request.URL.Path)
		response.Internal(c)
	}
}
