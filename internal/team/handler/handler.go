// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/live"
	"github.com/festy23/collabase/internal/middleware"
	"github.com/festy23/collabase/internal/response"
	teamModel "github.com/festy23/collabase/internal/team/model"
	"github.com/festy23/collabase/internal/team/service"
)

// Stream views of GET /teams/stream.
const (
	ViewAll          = "all"
	ViewCreated      = "created"
	ViewMember       = "member"
	ViewApplications = "applications"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	broker  *live.Broker
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, broker *live.Broker, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, broker: broker, logger: logger}
}

// CreateTeam handles POST /teams request.
// @Summary Post a team listing
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body teamModel.CreateTeamRequest true "Request"
// @Success 201 {object} map[string]teamModel.TeamResponse "Response wrapped in team object"
// @Failure 400 {object} response.ErrorResponse "INVALID_REQUEST, INVALID_LINK"
// @Router /teams [post]
func (h *Handler) CreateTeam(c *gin.Context) {
	var req teamModel.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.CreateTeam(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		h.handleError(c, err, "error creating team")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"team": resp})
}

// ListTeams handles GET /teams request.
// @Summary List teams newest first
// @Tags Teams
// @Produce json
// @Param category query string false "Category"
// @Param open query bool false "Only teams with a free seat"
// @Success 200 {object} map[string][]teamModel.TeamResponse
// @Router /teams [get]
func (h *Handler) ListTeams(c *gin.Context) {
	filter, ok := parseListFilter(c)
	if !ok {
		return
	}

	teams, err := h.service.ListTeams(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		h.handleError(c, err, "error listing teams")
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func parseListFilter(c *gin.Context) (teamModel.ListFilter, bool) {
	filter := teamModel.ListFilter{Category: c.Query("category")}
	if raw := c.Query("open"); raw != "" {
		open, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "open must be a boolean")
			return filter, false
		}
		filter.OpenOnly = open
	}
	return filter, true
}

// GetTeam handles GET /teams/:id request.
// @Summary Get a team with members and pending applications
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} map[string]teamModel.TeamResponse
// @Failure 404 {object} response.ErrorResponse "Team not found"
// @Router /teams/{id} [get]
func (h *Handler) GetTeam(c *gin.Context) {
	resp, err := h.service.GetTeam(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "error getting team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": resp})
}

// UpdateTeam handles PATCH /teams/:id request.
func (h *Handler) UpdateTeam(c *gin.Context) {
	var req teamModel.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.UpdateTeam(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err, "error updating team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": resp})
}

// DeleteTeam handles DELETE /teams/:id request.
func (h *Handler) DeleteTeam(c *gin.Context) {
	if err := h.service.DeleteTeam(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.handleError(c, err, "error deleting team")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetWhatsAppLink handles PUT /teams/:id/whatsapp request.
func (h *Handler) SetWhatsAppLink(c *gin.Context) {
	var req teamModel.SetWhatsAppLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.SetWhatsAppLink(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.WhatsAppLink)
	if err != nil {
		h.handleError(c, err, "error setting group link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": resp})
}

// SubmitApplication handles POST /teams/:id/applications request.
// @Summary Apply to join a team
// @Tags Applications
// @Produce json
// @Param id path string true "Team ID"
// @Success 201 {object} map[string]teamModel.TeamResponse
// @Failure 404 {object} response.ErrorResponse "Team not found"
// @Failure 409 {object} response.ErrorResponse "ALREADY_APPLIED, ALREADY_MEMBER"
// @Router /teams/{id}/applications [post]
func (h *Handler) SubmitApplication(c *gin.Context) {
	resp, err := h.service.SubmitApplication(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error submitting application")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"team": resp})
}

// WithdrawApplication handles DELETE /teams/:id/applications request.
func (h *Handler) WithdrawApplication(c *gin.Context) {
	resp, err := h.service.WithdrawApplication(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error withdrawing application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": resp})
}

// bindSnapshot reads the optional applicant snapshot body.
func bindSnapshot(c *gin.Context) (teamModel.ApplicantSnapshot, bool) {
	var snap teamModel.ApplicantSnapshot
	if c.Request.ContentLength == 0 {
		return snap, true
	}
	if err := c.ShouldBindJSON(&snap); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request body")
		return snap, false
	}
	return snap, true
}

// AcceptApplication handles POST /teams/:id/applications/:userId/accept request.
// @Summary Accept a pending application
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param userId path string true "Applicant ID"
// @Param request body teamModel.ApplicantSnapshot false "Member snapshot"
// @Success 200 {object} map[string]teamModel.TeamResponse
// @Failure 403 {object} response.ErrorResponse "FORBIDDEN"
// @Failure 409 {object} response.ErrorResponse "NOT_PENDING, TEAM_FULL"
// @Router /teams/{id}/applications/{userId}/accept [post]
func (h *Handler) AcceptApplication(c *gin.Context) {
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}

	resp, err := h.service.AcceptApplication(
		c.Request.Context(), c.Param("id"), middleware.UserID(c), c.Param("userId"), snap)
	if err != nil {
		h.handleError(c, err, "error accepting application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": resp})
}

// RejectApplication handles POST /teams/:id/applications/:userId/reject request.
func (h *Handler) RejectApplication(c *gin.Context) {
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}

	resp, err := h.service.RejectApplication(
		c.Request.Context(), c.Param("id"), middleware.UserID(c), c.Param("userId"), snap)
	if err != nil {
		h.handleError(c, err, "error rejecting application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": resp})
}

// RemoveMember handles DELETE /teams/:id/members/:userId request.
func (h *Handler) RemoveMember(c *gin.Context) {
	resp, err := h.service.RemoveMember(c.Request.Context(), c.Param("id"), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		h.handleError(c, err, "error removing member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": resp})
}

// MyApplications handles GET /me/applications request.
func (h *Handler) MyApplications(c *gin.Context) {
	views, err := h.service.MyApplications(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error listing applications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": views})
}

// CreatedTeams handles GET /me/teams/created request.
func (h *Handler) CreatedTeams(c *gin.Context) {
	teams, err := h.service.TeamsCreatedBy(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error listing created teams")
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// MemberTeams handles GET /me/teams/member request.
func (h *Handler) MemberTeams(c *gin.Context) {
	teams, err := h.service.TeamsMemberOf(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error listing member teams")
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// Stream handles GET /teams/stream request. The view query selects what the
// snapshots contain.
func (h *Handler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)
	view := c.DefaultQuery("view", ViewAll)

	var snapshot live.Snapshot
	switch view {
	case ViewAll:
		filter, ok := parseListFilter(c)
		if !ok {
			return
		}
		snapshot = func(ctx context.Context) (interface{}, error) {
			teams, err := h.service.ListTeams(ctx, userID, filter)
			return gin.H{"teams": teams}, err
		}
	case ViewCreated:
		snapshot = func(ctx context.Context) (interface{}, error) {
			teams, err := h.service.TeamsCreatedBy(ctx, userID)
			return gin.H{"teams": teams}, err
		}
	case ViewMember:
		snapshot = func(ctx context.Context) (interface{}, error) {
			teams, err := h.service.TeamsMemberOf(ctx, userID)
			return gin.H{"teams": teams}, err
		}
	case ViewApplications:
		snapshot = func(ctx context.Context) (interface{}, error) {
			views, err := h.service.MyApplications(ctx, userID)
			return gin.H{"applications": views}, err
		}
	default:
		response.BadRequest(c, "view must be one of all, created, member, applications")
		return
	}

	sub := h.broker.Subscribe(c.Request.Context(), live.TeamsTopic)
	if err := live.Stream(c, sub, snapshot); err != nil {
		h.logger.Warnw("Team stream ended", "view", view, "user_id", userID, "error", err)
	}
}

// TeamStream handles GET /teams/:id/stream request.
func (h *Handler) TeamStream(c *gin.Context) {
	userID := middleware.UserID(c)
	teamID := c.Param("id")

	// Unknown teams get a plain 404 instead of an event stream.
	if _, err := h.service.GetTeam(c.Request.Context(), userID, teamID); err != nil {
		h.handleError(c, err, "error getting team")
		return
	}

	sub := h.broker.Subscribe(c.Request.Context(), live.TeamTopic(teamID))
	err := live.Stream(c, sub, func(ctx context.Context) (interface{}, error) {
		team, err := h.service.GetTeam(ctx, userID, teamID)
		return gin.H{"team": team}, err
	})
	if err != nil {
		h.logger.Warnw("Team stream ended", "team_id", teamID, "user_id", userID, "error", err)
	}
}

func (h *Handler) handleError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, teamModel.ErrInvalidRequest):
		response.BadRequest(c, err.Error())
	case errors.Is(err, teamModel.ErrInvalidLink):
		response.Error(c, http.StatusBadRequest, "INVALID_LINK", "link must be a WhatsApp group link")
	case errors.Is(err, teamModel.ErrCannotRemoveLead):
		response.Error(c, http.StatusBadRequest, "CANNOT_REMOVE_LEAD", "the team lead cannot be removed")
	case errors.Is(err, teamModel.ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "only the team creator can do this")
	case errors.Is(err, teamModel.ErrTeamNotFound):
		response.NotFound(c, "team not found")
	case errors.Is(err, teamModel.ErrNotMember):
		response.Error(c, http.StatusNotFound, "NOT_MEMBER", "user is not a member of this team")
	case errors.Is(err, teamModel.ErrAlreadyApplied):
		response.Conflict(c, "ALREADY_APPLIED", "application already pending")
	case errors.Is(err, teamModel.ErrAlreadyMember):
		response.Conflict(c, "ALREADY_MEMBER", "user is already a member")
	case errors.Is(err, teamModel.ErrNotPending):
		response.Conflict(c, "NOT_PENDING", "no pending application")
	case errors.Is(err, teamModel.ErrTeamFull):
		response.Conflict(c, "TEAM_FULL", "team is full")
	default:
		h.logger.Errorw(logMsg, "error", err, "path", c.Request.URL.Path)
		response.Internal(c)
	}
}
