package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"google.golang.org/api/option"

	httpapi "github.com/aussiebroadwan/clubhouse/internal/clubhouse/http"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store/drivers/sqlite"
	"github.com/aussiebroadwan/clubhouse/pkg/blobx"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/mailx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the clubhouse service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          store.Store
	keys        *SessionKeys
	blobs       blobx.Store
	uploads     http.Handler
	limiters    httpx.LimiterFactory
	limiterPing func(context.Context) error // nil unless limits live in Redis
	mailer      mailx.Mailer

	// Closed on shutdown after the database
	closers []io.Closer

	// Services
	sessions            *service.SessionIssuer
	applicationService  *service.ApplicationService
	memberService       *service.MemberService
	mentorshipService   *service.MentorshipService
	forumService        *service.ForumService
	sponsorService      *service.SponsorService
	adminService        *service.AdminService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "clubhouse",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing and fail early on a bad path
	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keys = keys

	ctx := context.Background()
	if err := app.initBackends(ctx); err != nil {
		_ = app.closeAll()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if err := app.housekeepingService.Start(); err != nil {
		return err
	}

	app.logger.Info("clubhouse starting", "port", app.cfg.Port, "version", BuildVersion, "env", app.cfg.Env)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down clubhouse...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGrace)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeAll(); err != nil {
		return err
	}

	app.logger.Info("clubhouse stopped")
	return nil
}

func (app *Application) closeAll() error {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Error("error closing backend", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the SQLite database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initBackends picks the rate limiter, blob store and mailer implementations.
func (app *Application) initBackends(ctx context.Context) error {
	// Rate limiting
	switch app.cfg.RateLimitBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
		}
		app.closers = append(app.closers, client)
		app.limiters = httpx.RedisLimiters{Client: client}
		app.limiterPing = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		app.logger.Info("rate limits shared through redis", "addr", app.cfg.RedisAddr)
	default:
		app.limiters = httpx.MemoryLimiters{}
		app.logger.Info("rate limits kept in memory")
	}

	// Logo storage
	switch app.cfg.BlobBackend {
	case "gcs":
		var opts []option.ClientOption
		if app.cfg.GCSCredsFile != "" {
			opts = append(opts, option.WithCredentialsFile(app.cfg.GCSCredsFile))
		}
		gcs, err := blobx.NewGCSStore(ctx, app.cfg.GCSBucket, app.cfg.GCSPublicURL, opts...)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, gcs)
		app.blobs = gcs
		app.logger.Info("sponsor logos stored in cloud storage", "bucket", app.cfg.GCSBucket)
	default:
		local, err := blobx.NewLocalStore(app.cfg.UploadDir, "/uploads")
		if err != nil {
			return err
		}
		app.blobs = local
		app.uploads = local.Handler()
		app.logger.Info("sponsor logos stored on disk", "dir", app.cfg.UploadDir)
	}

	// Email
	if app.cfg.SendGridKey != "" {
		app.mailer = mailx.NewSendGridMailer(app.cfg.SendGridKey, app.cfg.MailFrom, app.cfg.MailFromName)
		app.logger.Info("emails delivered through sendgrid", "from", app.cfg.MailFrom)
	} else {
		app.mailer = mailx.NewLogMailer(app.logger)
		app.logger.Warn("SENDGRID_API_KEY not set, emails are only logged")
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	notifier := &service.Notifier{Mailer: app.mailer, SiteURL: app.cfg.SiteURL}

	app.sessions = &service.SessionIssuer{
		Signer: app.keys.Signer,
		Issuer: app.cfg.Issuer,
	}
	app.applicationService = &service.ApplicationService{
		Store:    app.db,
		Notifier: notifier,
		Policy: service.RatePolicy{
			Limit:  app.cfg.SponsorApprovalLimit,
			Window: app.cfg.SponsorApprovalWindow,
		},
	}
	app.memberService = &service.MemberService{Store: app.db}
	app.mentorshipService = &service.MentorshipService{Store: app.db, Notifier: notifier}
	app.forumService = &service.ForumService{Store: app.db}
	app.sponsorService = &service.SponsorService{Store: app.db, Blobs: app.blobs}
	app.adminService = &service.AdminService{Store: app.db, Issuer: app.cfg.MFAIssuer}
	app.bootstrapService = &service.BootstrapService{
		Store:     app.db,
		Token:     app.cfg.BootstrapToken,
		RootEmail: app.cfg.RootEmail,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.Housekeeping,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Admin,
		app.keys.Member,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Limiters = app.limiters
	router.SecureCookies = app.cfg.IsProd()
	router.SiteURL = app.cfg.SiteURL
	router.ExposeVerificationCode = app.cfg.ExposeVerificationCode
	router.MobileAPIKey = app.cfg.MobileAPIKey
	router.Uploads = app.uploads
	router.LimiterPing = app.limiterPing

	// Wire services to router
	router.Sessions = app.sessions
	router.ApplicationService = app.applicationService
	router.MemberService = app.memberService
	router.MentorshipService = app.mentorshipService
	router.ForumService = app.forumService
	router.SponsorService = app.sponsorService
	router.AdminService = app.adminService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
