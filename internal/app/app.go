// Package app wires configuration, storage, repositories, services, and
// the HTTP server into a runnable unit.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"memowindow/internal/auth"
	"memowindow/internal/backup"
	"memowindow/internal/config"
	"memowindow/internal/http/handler"
	custommw "memowindow/internal/http/middleware"
	"memowindow/internal/invite"
	"memowindow/internal/repository/postgres"
	"memowindow/internal/repository/postgres/migrations"
	"memowindow/internal/storage/s3"
	"memowindow/pkg/mailer"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	errFailedConnectDatabaseFmt = "failed to connect to database: %w"
	errFailedRunMigrationsFmt   = "failed to run migrations: %w"
	errFailedInitStorageFmt     = "failed to init object storage: %w"
)

type Service struct {
	cfg    *config.Config
	db     *postgres.DB
	server *echo.Echo
}

// NewService wires up all dependencies and returns a runnable service.
func NewService(cfg *config.Config) (*Service, error) {
	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf(errFailedConnectDatabaseFmt, err)
	}

	if err := migrations.Up(cfg.Database.MigrateURL()); err != nil {
		db.Close()
		return nil, fmt.Errorf(errFailedRunMigrationsFmt, err)
	}

	storage, err := s3.NewClient(&cfg.AWS)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf(errFailedInitStorageFmt, err)
	}

	userRepo := postgres.NewUserRepository(db)
	mediaRepo := postgres.NewMediaRepository(db)
	backupRepo := postgres.NewBackupRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	submissionRepo := postgres.NewSubmissionRepository(db)
	scanRepo := postgres.NewScanEventRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	backupSvc := backup.NewService(
		mediaRepo,
		backupRepo,
		storage,
		backup.NewHTTPFetcher(cfg.Backup.FetchTimeout),
		backup.NewHTTPProber(cfg.Backup.ProbeTimeout),
		&cfg.Backup,
	)

	resend := mailer.NewResend(cfg.Mailer.APIKey, cfg.Mailer.From, cfg.Mailer.Timeout)
	inviteSvc := invite.NewService(invitationRepo, submissionRepo, scanRepo, analyticsRepo, resend, &cfg.App)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)
	authMW := auth.NewMiddleware(jwtService)

	authHandler := handler.NewAuthHandler(userRepo, jwtService)
	mediaHandler := handler.NewMediaHandler(mediaRepo)
	backupHandler := handler.NewBackupHandler(mediaRepo, backupSvc)
	invitationHandler := handler.NewInvitationHandler(inviteSvc)
	publicHandler := handler.NewPublicHandler(inviteSvc)

	e := newServer(cfg, authMW, authHandler, mediaHandler, backupHandler, invitationHandler, publicHandler)

	return &Service{cfg: cfg, db: db, server: e}, nil
}

func newServer(cfg *config.Config, authMW *auth.Middleware, authHandler *handler.AuthHandler, mediaHandler *handler.MediaHandler, backupHandler *handler.BackupHandler, invitationHandler *handler.InvitationHandler, publicHandler *handler.PublicHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(custommw.RequestID())
	e.Use(custommw.SecurityHeaders())
	e.Use(custommw.NewGlobalRateLimiter().Middleware())

	e.GET("/ping", handler.Ping)

	strictLimiter := custommw.NewStrictRateLimiter().Middleware()
	e.POST("/auth/register", authHandler.Register, strictLimiter)
	e.POST("/auth/login", authHandler.Login, strictLimiter)

	// public token-gated surface
	pub := e.Group("/invite", strictLimiter)
	pub.GET("/:token", publicHandler.Validate)
	pub.POST("/:token/submissions", publicHandler.SubmitMemory)

	// owner surface
	api := e.Group("", authMW.RequireJWT())
	api.POST("/media", mediaHandler.Create)
	api.GET("/media/:id", mediaHandler.Get)
	api.POST("/media/:id/backup", backupHandler.CreateBackups)
	api.GET("/media/:id/backup/verify", backupHandler.VerifyBackups)
	api.POST("/media/:id/restore", backupHandler.RestoreFromBackup)
	api.POST("/admin/backups/create-all", backupHandler.CreateAllBackups)
	api.POST("/admin/backups/verify-all", backupHandler.VerifyAllBackups)
	api.POST("/admin/backups/restore-all", backupHandler.RestoreAllBackups)

	api.POST("/invitations", invitationHandler.Create)
	api.GET("/invitations", invitationHandler.List)
	api.GET("/invitations/:id", invitationHandler.Get)
	api.POST("/invitations/:id/close", invitationHandler.Close)
	api.GET("/invitations/:id/submissions", invitationHandler.ListSubmissions)
	api.GET("/invitations/:id/analytics", invitationHandler.Analytics)
	api.GET("/invitations/:id/scans", invitationHandler.Scans)
	api.POST("/submissions/:id/approve", invitationHandler.ApproveSubmission)
	api.POST("/submissions/:id/reject", invitationHandler.RejectSubmission)

	return e
}

func (s *Service) Start() error {
	log.Printf("starting memowindow service on :%s", s.cfg.Server.Port)
	if err := s.server.Start(":" + s.cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	defer s.db.Close()
	return s.server.Shutdown(ctx)
}
