// Package health provides the liveness endpoint for the database and the notification relay.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/collabase/internal/database/database"
	"github.com/festy23/collabase/internal/database/pool"
)

const checkTimeout = 5 * time.Second

// Checker is an additional component probed by the health endpoint.
type Checker interface {
	Name() string
	Healthy(ctx context.Context) error
}

// Handler handles health check requests.
type Handler struct {
	db       *gorm.DB
	checkers []Checker
	logger   *zap.SugaredLogger
}

// New creates a new health handler instance.
func New(db *gorm.DB, logger *zap.SugaredLogger, checkers ...Checker) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		db:       db,
		checkers: checkers,
		logger:   logger,
	}
}

// Response represents health check response.
type Response struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Pool       *pool.Stats       `json:"pool,omitempty"`
}

// Check handles GET /health request.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ok", Components: map[string]string{"database": "ok"}}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "component", "database", "error", err)
		resp.Status = "unhealthy"
		resp.Components["database"] = "unhealthy"
	}
	if h.db != nil {
		if stats, err := pool.Snapshot(h.db); err == nil {
			resp.Pool = &stats
		}
	}

	for _, checker := range h.checkers {
		if err := checker.Healthy(ctx); err != nil {
			h.logger.Warnw("health check failed", "component", checker.Name(), "error", err)
			resp.Status = "unhealthy"
			resp.Components[checker.Name()] = "unhealthy"
			continue
		}
		resp.Components[checker.Name()] = "ok"
	}

	if resp.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
