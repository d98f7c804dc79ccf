package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	httpapi "github.com/jamescompany/qa-portal/internal/gateway/http"
	"github.com/jamescompany/qa-portal/internal/gateway/service"
	"github.com/jamescompany/qa-portal/internal/gateway/store"
	"github.com/jamescompany/qa-portal/internal/gateway/store/drivers/sqlite"
	"github.com/jamescompany/qa-portal/pkg/jwtx"
	"github.com/jamescompany/qa-portal/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	authService         *service.AuthService
	providers           *service.ProviderSet
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	signer, err := jwtx.NewSigner([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth gateway starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth gateway stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
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

// initServices wires business logic services and the identity providers
// enabled by configuration.
func (app *Application) initServices() error {
	app.authService = &service.AuthService{
		Store:      app.db,
		Signer:     app.signer,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	var providers []service.IdentityProvider
	base := strings.TrimSuffix(app.cfg.PublicBaseURL, "/")

	if app.cfg.GoogleClientID != "" {
		google, err := service.NewGoogleProvider(
			context.Background(),
			app.cfg.GoogleClientID,
			app.cfg.GoogleClientSecret,
			base+"/v1/oauth/google/callback",
		)
		if err != nil {
			return fmt.Errorf("failed to initialize google provider: %w", err)
		}
		providers = append(providers, google)
	}
	if app.cfg.KakaoClientID != "" {
		providers = append(providers, service.NewKakaoProvider(
			app.cfg.KakaoClientID,
			app.cfg.KakaoClientSecret,
			base+"/v1/oauth/kakao/callback",
		))
	}
	if app.cfg.LegacyBaseURL != "" {
		providers = append(providers, service.NewLegacyProvider(
			app.cfg.LegacyBaseURL,
			app.cfg.LegacyClientID,
			app.cfg.LegacyClientSecret,
			base+"/v1/oauth/legacy/callback",
		))
	}
	app.providers = service.NewProviderSet(providers...)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initHTTP wires the router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer, BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.Providers = app.providers
	router.SPACallbackURL = app.cfg.SPACallbackURL
	router.SecureCookies = app.cfg.Env != "dev"
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
