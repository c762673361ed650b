// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/festy23/collabase/internal/config"
	"github.com/festy23/collabase/internal/database/database"
	"github.com/festy23/collabase/internal/database/migrate"
	"github.com/festy23/collabase/internal/health"
	"github.com/festy23/collabase/internal/live"
	"github.com/festy23/collabase/internal/mailer"
	"github.com/festy23/collabase/internal/middleware"
	"github.com/festy23/collabase/internal/notification/relay"
	notificationRepository "github.com/festy23/collabase/internal/notification/repository"
	notificationRouter "github.com/festy23/collabase/internal/notification/router"
	statisticsRouter "github.com/festy23/collabase/internal/statistics/router"
	teamRouter "github.com/festy23/collabase/internal/team/router"
	userRouter "github.com/festy23/collabase/internal/user/router"
	"github.com/festy23/collabase/pkg/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Errorw("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.SugaredLogger) error {
	db, err := database.New(log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			log.Warnw("failed to close database", "error", closeErr)
		}
	}()

	if err := migrate.Migrate(db, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logger(log, "/health"))

	broker := live.NewBroker()
	notificationRelay := relay.New(notificationRepository.New(db), broker, cfg.Notification, log)

	auth, users := userRouter.RegisterRoutes(r, db, mailer.NewLogMailer(log), cfg.Auth, log)
	teamRouter.RegisterRoutes(r, db, users, broker, notificationRelay, auth, log)
	notificationRouter.RegisterRoutes(r, db, broker, cfg.Notification, auth, log)
	statisticsRouter.RegisterRoutes(r, db, log)
	r.GET("/health", health.New(db, log, notificationRelay).Check)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Request contexts derive from ctx so open event streams end on shutdown.
	srv := &http.Server{
		Addr:              cfg.Server.GetAddress(),
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return notificationRelay.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Infow("server stopped")
	return nil
}
