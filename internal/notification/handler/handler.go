// Package handler provides HTTP handlers for notification endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/live"
	"github.com/festy23/collabase/internal/middleware"
	notificationModel "github.com/festy23/collabase/internal/notification/model"
	"github.com/festy23/collabase/internal/notification/service"
	"github.com/festy23/collabase/internal/response"
)

// Handler handles HTTP requests for durable and dashboard notifications.
type Handler struct {
	service service.Service
	broker  *live.Broker
	logger  *zap.SugaredLogger
}

// New creates a new notification handler instance.
func New(svc service.Service, broker *live.Broker, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, broker: broker, logger: logger}
}

// List handles GET /notifications request.
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Param limit query int false "Maximum number of notifications"
// @Success 200 {object} notificationModel.ListResponse
// @Router /notifications [get]
func (h *Handler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	resp, err := h.service.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		h.handleError(c, err, "error listing notifications")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseFilter(c *gin.Context) (notificationModel.ListFilter, bool) {
	var filter notificationModel.ListFilter
	if raw := c.Query("unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "unread must be a boolean")
			return filter, false
		}
		filter.UnreadOnly = unread
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.BadRequest(c, "limit must be a non-negative integer")
			return filter, false
		}
		filter.Limit = limit
	}
	return filter, true
}

// UnreadCount handles GET /notifications/unread-count request.
func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error counting notifications")
		return
	}
	c.JSON(http.StatusOK, notificationModel.UnreadCountResponse{UnreadCount: count})
}

// MarkRead handles POST /notifications/:id/read request.
func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.handleError(c, err, "error marking notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all request.
func (h *Handler) MarkAllRead(c *gin.Context) {
	updated, err := h.service.MarkAllRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error marking notifications read")
		return
	}
	c.JSON(http.StatusOK, notificationModel.MarkAllReadResponse{Updated: updated})
}

// Delete handles DELETE /notifications/:id request.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.handleError(c, err, "error deleting notification")
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream handles GET /notifications/stream request.
func (h *Handler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	sub := h.broker.Subscribe(c.Request.Context(), live.NotificationsTopic(userID))
	err := live.Stream(c, sub, func(ctx context.Context) (interface{}, error) {
		return h.service.List(ctx, userID, filter)
	})
	if err != nil {
		h.logger.Warnw("Notification stream ended", "user_id", userID, "error", err)
	}
}

// ListDashboard handles GET /dashboard/notifications request.
// @Summary List dashboard notifications
// @Tags Dashboard
// @Produce json
// @Success 200 {object} notificationModel.DashboardResponse
// @Router /dashboard/notifications [get]
func (h *Handler) ListDashboard(c *gin.Context) {
	items, err := h.service.ListDashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err, "error listing dashboard notifications")
		return
	}
	c.JSON(http.StatusOK, notificationModel.DashboardResponse{Notifications: items})
}

// Dismiss handles DELETE /dashboard/notifications/:id request.
func (h *Handler) Dismiss(c *gin.Context) {
	if err := h.service.Dismiss(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.handleError(c, err, "error dismissing dashboard notification")
		return
	}
	c.Status(http.StatusNoContent)
}

// DashboardStream handles GET /dashboard/stream request.
func (h *Handler) DashboardStream(c *gin.Context) {
	userID := middleware.UserID(c)
	sub := h.broker.Subscribe(c.Request.Context(), live.DashboardTopic(userID))
	err := live.Stream(c, sub, func(ctx context.Context) (interface{}, error) {
		items, err := h.service.ListDashboard(ctx, userID)
		if err != nil {
			return nil, err
		}
		return notificationModel.DashboardResponse{Notifications: items}, nil
	})
	if err != nil {
		h.logger.Warnw("Dashboard stream ended", "user_id", userID, "error", err)
	}
}

func (h *Handler) handleError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, notificationModel.ErrNotificationNotFound):
		response.NotFound(c, "notification not found")
	default:
		h.logger.Errorw(logMsg, "error", err, "path", c.Request.URL.Path)
		response.Internal(c)
	}
}
