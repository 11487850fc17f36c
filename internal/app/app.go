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

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"fundingdash/internal/config"
	apperrors "fundingdash/internal/errors"
	"fundingdash/internal/infrastructure"
	customMiddleware "fundingdash/internal/middleware"
	"fundingdash/internal/prep"
	"fundingdash/internal/services"
	handlers "fundingdash/internal/transport/http"
)

const AppName = "fundingdash"

var (
	// Version is set at build time with -ldflags "-X fundingdash/internal/app.Version=..."
	Version = "dev"
	// BuildTime is set at compile time
	BuildTime = ""
)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	Metrics          *infrastructure.BusinessMetrics
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
}

// NewApplication initializes the global logger from cfg and builds the application.
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return New(ctx, cfg, logger)
}

// New wires telemetry, the dashboard service and the router. The configured
// input file is prepared before New returns; a file that cannot be prepared
// is an error, and telemetry started by New is shut down again.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Application, err error) {
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("input", cfg.Data.InputPath))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry, Version, cfg.Data.InputPath), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if shutdownErr := otelProviders.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.WarnContext(ctx, "OpenTelemetry shutdown after failed startup",
				slog.String("error", shutdownErr.Error()))
		}
	}()

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		Metrics:       metrics,
		OTelProviders: otelProviders,
	}

	if err := a.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// NewPreparer builds the cleaning pipeline from the data config section.
func NewPreparer(cfg config.DataConfig, logger *slog.Logger, providers *infrastructure.OTelProviders, metrics *infrastructure.BusinessMetrics) *prep.Preparer {
	opts := prep.OptionsFromConfig(cfg)
	opts.Logger = logger
	opts.Metrics = metrics
	if providers != nil {
		opts.Tracer = providers.Tracer
	}
	return prep.New(opts)
}

func (a *Application) initializeServices(ctx context.Context) error {
	preparer := NewPreparer(a.Config.Data, a.Logger, a.OTelProviders, a.Metrics)

	svc, err := services.NewDashboardService(ctx, a.Config.Data, preparer, a.Metrics, a.Logger)
	if err != nil {
		return err
	}
	a.DashboardService = svc
	a.HealthService = services.NewHealthService(Version, BuildTime, svc, a.Logger)
	return nil
}

// setupRouter builds the middleware chain and mounts every handler.
// Order: RequestID → RealIP → OTel → Logger → Recoverer → Security → CORS → RateLimit → Timeout
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apperrors.RecoveryMiddleware(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.corsConfig()))
	}
	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, "/api/health", "/metrics").Handler)
	}

	// Scrapes skip the request timeout
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler))

	dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger, errorHandler)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Get("/", dashboardHandler.ServeDashboardPage)

		r.Route("/api", func(r chi.Router) {
			r.Mount("/health", healthHandler.Routes())
			r.Get("/version", healthHandler.Version)

			r.Mount("/dashboard", dashboardHandler.Routes())
		})
	})

	a.Router = r
}

func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully. SIGHUP reloads the input file.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening",
			slog.String("address", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.reloadOn(gctx, hup)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(gctx, "Shutdown requested")
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// reloadOn reloads the funding data for every value received on sig until ctx is done.
func (a *Application) reloadOn(ctx context.Context, sig <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			a.Logger.InfoContext(ctx, "Received SIGHUP, reloading funding data")
			if _, err := a.DashboardService.Reload(ctx); err != nil {
				a.Logger.ErrorContext(ctx, "Reload failed, keeping previous data",
					slog.String("error", err.Error()))
			}
		}
	}
}
