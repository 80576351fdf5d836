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
	"time"

	"github.com/sentinelsec/scangate/internal/gateway/domain"
	httpapi "github.com/sentinelsec/scangate/internal/gateway/http"
	"github.com/sentinelsec/scangate/internal/gateway/scanner"
	"github.com/sentinelsec/scangate/internal/gateway/service"
	"github.com/sentinelsec/scangate/internal/gateway/store"
	"github.com/sentinelsec/scangate/internal/gateway/store/drivers/sqlite"
	"github.com/sentinelsec/scangate/pkg/jwtx"
	"github.com/sentinelsec/scangate/pkg/slogx"
	"github.com/sentinelsec/scangate/pkg/urlcheck"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger
	mode   domain.Mode

	// Core dependencies
	db     store.Store
	signer *jwtx.HS256
	engine scanner.Engine

	// Services
	credentialService *service.CredentialService
	revocationService *service.RevocationService
	tokenService      *service.TokenService
	gatewayService    *service.GatewayService
	scanService       *service.ScanService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// Configuration contradictions are fatal here, before the server ever binds.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "scangate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	mode, err := domain.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	app.mode = mode

	if err := app.validateConfig(); err != nil {
		return nil, err
	}

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

// validateConfig checks mode-specific requirements before any resource is
// opened.
func (app *Application) validateConfig() error {
	if app.mode == domain.ModeToken {
		if len(app.cfg.SigningKey) < jwtx.MinKeyBytes {
			return fmt.Errorf("token mode requires SCANGATE_SIGNING_KEY of at least %d bytes", jwtx.MinKeyBytes)
		}
	}

	if app.cfg.EngineURL == "" {
		return errors.New("SCANGATE_ENGINE_URL is required")
	}

	return nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.revocationService.Start()

	app.logger.Info("scan gateway starting",
		"port", app.cfg.Port,
		"mode", app.mode.String(),
		"version", BuildVersion)

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
	app.logger.Info("shutting down scan gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.revocationService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("scan gateway stopped")
	return nil
}

// Handler exposes the router, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initDatabase initializes the database and applies migrations.
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

// initServices initializes all business logic services and seeds the
// credential registry.
func (app *Application) initServices() error {
	ctx := context.Background()

	app.credentialService = &service.CredentialService{Store: app.db}
	app.revocationService = service.NewRevocationService()

	entries, err := service.ParseSeedEntries(app.cfg.Clients)
	if err != nil {
		return fmt.Errorf("failed to parse SCANGATE_CLIENTS: %w", err)
	}
	if err := app.credentialService.Seed(ctx, entries); err != nil {
		return fmt.Errorf("failed to seed client registry: %w", err)
	}

	// Both credential-backed modes are useless without registered clients;
	// refusing to start beats serving a gateway nobody can pass.
	if app.mode != domain.ModeOpen {
		empty, err := app.credentialService.IsEmpty(ctx)
		if err != nil {
			return err
		}
		if empty {
			return fmt.Errorf("%s mode requires at least one client in SCANGATE_CLIENTS", app.mode)
		}
	}

	if app.mode == domain.ModeToken {
		signer, err := jwtx.NewHS256([]byte(app.cfg.SigningKey), app.cfg.Issuer)
		if err != nil {
			return fmt.Errorf("failed to initialize token signer: %w", err)
		}
		app.signer = signer

		app.tokenService = &service.TokenService{
			Signer:      signer,
			Credentials: app.credentialService,
			Revocations: app.revocationService,
			AccessTTL:   app.cfg.AccessTTL,
			RefreshTTL:  app.cfg.RefreshTTL,
		}
	}

	app.gatewayService = &service.GatewayService{
		Mode:        app.mode,
		Credentials: app.credentialService,
		Tokens:      app.tokenService,
	}

	app.engine = scanner.NewZAPEngine(app.cfg.EngineURL, app.cfg.EngineAPIKey, app.cfg.EngineTimeout)

	app.scanService = &service.ScanService{
		Policy: &urlcheck.Policy{
			AllowHosts:     splitList(app.cfg.URLAllowList),
			DenyHosts:      splitList(app.cfg.URLDenyList),
			AllowLoopback:  app.cfg.AllowLocalhost,
			AllowPrivate:   app.cfg.AllowPrivate,
			ResolveTimeout: app.cfg.DNSTimeout,
		},
		Engine: app.engine,
	}

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.TokenService = app.tokenService
	router.GatewayService = app.gatewayService
	router.ScanService = app.scanService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
