// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/collabase/internal/live"
	"github.com/festy23/collabase/internal/team/handler"
	"github.com/festy23/collabase/internal/team/repository"
	"github.com/festy23/collabase/internal/team/service"
)

// RegisterRoutes registers team, application and projection routes behind auth.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	profiles service.ProfileLookup,
	broker *live.Broker,
	kicker service.Kicker,
	auth gin.HandlerFunc,
	logger *zap.SugaredLogger,
) {
	repo := repository.New(db)
	svc := service.New(repo, db, profiles, broker, kicker, logger)
	h := handler.New(svc, broker, logger)

	teams := r.Group("/teams", auth)
	teams.POST("", h.CreateTeam)
	teams.GET("", h.ListTeams)
	teams.GET("/stream", h.Stream)
	teams.GET("/:id", h.GetTeam)
	teams.PATCH("/:id", h.UpdateTeam)
	teams.DELETE("/:id", h.DeleteTeam)
	teams.GET("/:id/stream", h.TeamStream)
	teams.PUT("/:id/whatsapp", h.SetWhatsAppLink)
	teams.POST("/:id/applications", h.SubmitApplication)
	teams.DELETE("/:id/applications", h.WithdrawApplication)
	teams.POST("/:id/applications/:userId/accept", h.AcceptApplication)
	teams.POST("/:id/applications/:userId/reject", h.RejectApplication)
	teams.DELETE("/:id/members/:userId", h.RemoveMember)

	me := r.Group("/me", auth)
	me.GET("/applications", h.MyApplications)
	me.GET("/teams/created", h.CreatedTeams)
	me.GET("/teams/member", h.MemberTeams)
}
