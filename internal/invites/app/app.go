package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/tenancy/internal/invites/http"
	"github.com/aussiebroadwan/tenancy/internal/invites/service"
	"github.com/aussiebroadwan/tenancy/internal/invites/store"
	"github.com/aussiebroadwan/tenancy/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/mailx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// tokenLeeway absorbs clock skew between this service and the token issuer.
	tokenLeeway = 30 * time.Second
)

// Application is the invitation service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	verifier jwtx.Verifier
	sender   mailx.Sender

	invitationService *service.InvitationService
	propertyService   *service.PropertyService
	sweeper           *service.ExpirySweeper

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialised.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "invites-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	verifier, err := jwtx.NewVerifierHS256([]byte(cfg.JWTSecret), cfg.JWTIssuer, tokenLeeway)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	app.verifier = verifier

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initNotifier()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, mainly for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.sweeper.Start()

	app.logger.Info("invites service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"property_policy", app.cfg.PropertyPolicy,
		"notifier", app.cfg.Notifier,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.sweeper.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, stops the sweeper and closes the
// database, in that order.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down invites service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.sweeper.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("invites service stopped")
	return nil
}

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

func (app *Application) initNotifier() {
	switch app.cfg.Notifier {
	case NotifierSMTP:
		app.sender = mailx.SMTPSender{
			Host:     app.cfg.SMTP.Host,
			Port:     app.cfg.SMTP.Port,
			Username: app.cfg.SMTP.Username,
			Password: app.cfg.SMTP.Password,
			From:     app.cfg.SMTP.From,
		}
	default:
		app.logger.Warn("email delivery disabled, invitations are written to the log")
		app.sender = mailx.LogSender{Logger: app.logger}
	}
}

func (app *Application) initServices() {
	app.invitationService = &service.InvitationService{
		Store: app.db,
		Notifier: &service.MailNotifier{
			Sender: app.sender,
			AppURL: app.cfg.AppURL,
			TTL:    app.cfg.InvitationTTL,
		},
		Hasher: cryptox.PasswordHasher{Pepper: app.cfg.PasswordPepper},
		Policy: app.cfg.PropertyPolicy,
		TTL:    app.cfg.InvitationTTL,
	}
	app.propertyService = &service.PropertyService{Store: app.db}

	app.sweeper = service.NewExpirySweeper(
		app.invitationService,
		app.logger,
		app.cfg.SweepInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		app.cfg.Limits(),
		BuildVersion,
		app.db,
		app.logger,
	)
	router.InvitationService = app.invitationService
	router.PropertyService = app.propertyService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
