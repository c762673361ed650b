// Package router provides notification routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/collabase/internal/config"
	"github.com/festy23/collabase/internal/live"
	"github.com/festy23/collabase/internal/notification/handler"
	"github.com/festy23/collabase/internal/notification/repository"
	"github.com/festy23/collabase/internal/notification/service"
)

// RegisterRoutes registers durable and dashboard notification routes behind auth.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	broker *live.Broker,
	cfg config.NotificationConfig,
	auth gin.HandlerFunc,
	logger *zap.SugaredLogger,
) {
	repo := repository.New(db)
	svc := service.New(repo, broker, cfg, logger)
	h := handler.New(svc, broker, logger)

	notifications := r.Group("/notifications", auth)
	notifications.GET("", h.List)
	notifications.GET("/unread-count", h.UnreadCount)
	notifications.GET("/stream", h.Stream)
	notifications.POST("/read-all", h.MarkAllRead)
	notifications.POST("/:id/read", h.MarkRead)
	notifications.DELETE("/:id", h.Delete)

	dashboard := r.Group("/dashboard", auth)
	dashboard.GET("/notifications", h.ListDashboard)
	dashboard.DELETE("/notifications/:id", h.Dismiss)
	dashboard.GET("/stream", h.DashboardStream)
}
