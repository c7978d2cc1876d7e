package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/kidstime/kidstime/internal/auth/denylist"
	httpapi "github.com/kidstime/kidstime/internal/auth/http"
	"github.com/kidstime/kidstime/internal/auth/mail"
	"github.com/kidstime/kidstime/internal/auth/service"
	"github.com/kidstime/kidstime/internal/auth/store"
	"github.com/kidstime/kidstime/internal/auth/store/drivers/sqlite"
	"github.com/kidstime/kidstime/pkg/jwtx"
	"github.com/kidstime/kidstime/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	rdb      *redis.Client
	denylist *denylist.Denylist
	mailer   mail.Sender

	adminSessions  *service.AdminSessionService
	clientSessions *service.ClientSessionService
	housekeeping   *service.Housekeeping

	server *http.Server
	router *httpapi.Router

	stopHousekeeping context.CancelFunc
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "kidstime-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initDenylist()
	app.initMailer()

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := service.SeedAdmin(context.Background(), app.db, app.logger,
		cfg.AdminName, cfg.AdminPassword); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	hkCtx, cancel := context.WithCancel(context.Background())
	app.stopHousekeeping = cancel
	go app.housekeeping.Run(hkCtx)

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.stopHousekeeping != nil {
		app.stopHousekeeping()
	}

	if err := app.rdb.Close(); err != nil {
		app.logger.Error("error closing redis", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initDenylist() {
	app.rdb = redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
	app.denylist = denylist.New(app.rdb)
}

func (app *Application) initMailer() {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("no SMTP host configured, verification codes will be logged")
		app.mailer = mail.NewLogSender(app.logger)
		return
	}

	app.mailer = mail.NewSMTPSender(mail.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})
}

func (app *Application) initServices() error {
	adminCodec, err := jwtx.NewAdminCodec(jwtx.Config{
		AccessSecret:  app.cfg.AdminAccessSecret,
		RefreshSecret: app.cfg.AdminRefreshSecret,
		AccessTTL:     app.cfg.AccessTokenTTL,
		RefreshTTL:    app.cfg.RefreshTokenTTL,
		Issuer:        app.cfg.Issuer,
	})
	if err != nil {
		return fmt.Errorf("admin codec: %w", err)
	}

	clientCodec, err := jwtx.NewClientCodec(jwtx.Config{
		AccessSecret:  app.cfg.ClientAccessSecret,
		RefreshSecret: app.cfg.ClientRefreshSecret,
		AccessTTL:     app.cfg.AccessTokenTTL,
		RefreshTTL:    app.cfg.RefreshTokenTTL,
		Issuer:        app.cfg.Issuer,
	})
	if err != nil {
		return fmt.Errorf("client codec: %w", err)
	}

	app.adminSessions = service.NewAdminSessionService(app.db, adminCodec, app.logger)
	app.clientSessions = service.NewClientSessionService(
		app.db, clientCodec, app.mailer, app.logger, app.cfg.VerificationCodeTTL)
	app.housekeeping = service.NewHousekeeping(
		app.db, app.logger, app.cfg.HousekeepingInterval, app.cfg.RefreshTokenTTL)

	return nil
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.denylist,
		app.adminSessions,
		app.clientSessions,
		app.logger,
	)
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
