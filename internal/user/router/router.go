// Package router provides identity and profile routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/collabase/internal/config"
	"github.com/festy23/collabase/internal/mailer"
	"github.com/festy23/collabase/internal/middleware"
	"github.com/festy23/collabase/internal/user/handler"
	"github.com/festy23/collabase/internal/user/repository"
	"github.com/festy23/collabase/internal/user/service"
)

// RegisterRoutes registers identity and profile routes. It returns the
// bearer-token middleware so other modules can protect their routes with
// the same sessions, and the service for profile lookups.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	mail mailer.Mailer,
	cfg config.AuthConfig,
	logger *zap.SugaredLogger,
) (gin.HandlerFunc, service.Service) {
	repo := repository.New(db)
	svc := service.New(repo, mail, cfg, logger)
	h := handler.New(svc, logger)
	auth := middleware.Auth(svc, logger)

	public := r.Group("/auth")
	public.POST("/signup", h.SignUp)
	public.POST("/signin", h.SignIn)
	public.POST("/verify", h.VerifyEmail)
	public.POST("/password/reset", h.RequestPasswordReset)
	public.POST("/password/confirm", h.ConfirmPasswordReset)

	session := r.Group("/auth", auth)
	session.POST("/signout", h.SignOut)
	session.GET("/me", h.Me)
	session.POST("/verify/send", h.SendVerification)

	users := r.Group("/users", auth)
	users.GET("/:id", h.GetProfile)
	users.PUT("/me", h.UpdateProfile)

	return auth, svc
}
