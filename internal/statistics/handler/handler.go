// Package handler provides HTTP handlers for statistics endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/response"
	"github.com/festy23/collabase/internal/statistics/service"
)

// Handler handles HTTP requests for statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetOverview handles GET /statistics request.
// @Summary Get platform-wide statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.Overview
// @Failure 500 {object} response.ErrorResponse
// @Router /statistics [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetOverview(c *gin.Context) {
	resp, err := h.service.GetOverview(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error getting statistics overview", "error", err)
		response.Internal(c)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCategoriesStatistics handles GET /statistics/categories request.
// @Summary Get statistics grouped by team category
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.CategoriesStatisticsResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /statistics/categories [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetCategoriesStatistics(c *gin.Context) {
	resp, err := h.service.GetCategoriesStatistics(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error getting category statistics", "error", err)
		response.Internal(c)
		return
	}

	c.JSON(http.StatusOK, resp)
}
