package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"leadscope/internal/classification"
	"leadscope/internal/config"
	"leadscope/internal/dataprocessing"
	apierrors "leadscope/internal/errors"
	"leadscope/internal/exporter"
	"leadscope/internal/infrastructure"
	customMiddleware "leadscope/internal/middleware"
	"leadscope/internal/services"
	handlers "leadscope/internal/transport/http"
	ws "leadscope/internal/websocket"
	"leadscope/pkg/contracts"
)

// AppName is logged at startup.
const AppName = "LeadScope - Sales Meeting Intelligence"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	WebSocketHub  *ws.Hub
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler

	mu       sync.Mutex
	listener net.Listener
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Leads           *services.LeadService
	Recommendations *services.RecommendationService
	Dashboard       *services.DashboardService
	Export          *services.ExportService
	Health          *services.HealthService
}

// NewApplication loads the configuration and builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("environment", cfg.Telemetry.Environment))

	return New(cfg, logger)
}

// New builds the application from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the services. Missing credentials for the model
// provider or Google Sheets disable those features instead of failing.
func (a *Application) initializeServices() error {
	ctx := context.Background()

	var generator classification.Generator
	if a.Config.AI.APIKey != "" {
		gemini, err := classification.NewGeminiGenerator(ctx, a.Config.AI.APIKey, a.Config.AI.Model, infrastructure.WithComponent(a.Logger, "gemini"))
		if err != nil {
			a.Logger.Warn("AI provider unavailable", slog.String("error", err.Error()))
		} else {
			generator = gemini
		}
	} else {
		a.Logger.Warn("GEMINI_API_KEY is not set, classification endpoints will answer 503")
	}

	classifier := classification.NewService(generator, classification.Config{
		ClassifyTemperature:     a.Config.AI.ClassifyTemperature,
		RecommendTemperature:    a.Config.AI.RecommendTemperature,
		MaxRecommendationSample: a.Config.AI.MaxSample,
		Timeout:                 a.Config.AI.RequestTimeout,
	}, a.Logger)

	var sheets services.SheetsPublisher
	if a.Config.Export.SheetsEnabled() {
		publisher, err := exporter.NewSheetsPublisher(ctx, a.Config.Export, a.Logger)
		if err != nil {
			a.Logger.Warn("Google Sheets export unavailable", slog.String("error", err.Error()))
		} else {
			sheets = publisher
		}
	}

	a.WebSocketHub = ws.NewHub(a.Config.WebSocket, a.Metrics, infrastructure.WithComponent(a.Logger, "websocket"))
	parser := dataprocessing.NewBatchParser(nil, a.Logger)
	export := services.NewExportService(sheets, a.Metrics, a.Logger)

	a.Services = &ServiceContainer{
		Leads:           services.NewLeadService(parser, classifier, a.WebSocketHub, a.Metrics, a.Logger),
		Recommendations: services.NewRecommendationService(classifier, a.Config.Cache.RecommendationTTL, a.Config.Cache.MaxEntries, a.Metrics, a.Logger),
		Dashboard:       services.NewDashboardService(a.Logger),
		Export:          export,
		Health:          services.NewHealthService(contracts.GetVersionInfo(), a.WebSocketHub, generator != nil, export.SheetsEnabled(), a.Logger),
	}
	return nil
}

// setupRouter configures the HTTP router. /ws sits outside the full
// middleware group so that nothing wraps the hijacked connection.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Method(http.MethodGet, config.WebSocketEndpoint, handlers.NewWebSocketHandler(
		a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.ErrorHandler, a.Logger))

	// Ordering: OTel → error logging and recovery → headers → CORS → rate limit → timeout
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.ErrorHandler,
				a.Logger,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler, a.Logger))

		a.setupAPIRoutes(r)
	})

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewRequestValidator(a.Config.Upload.MaxBytes, a.Logger)

	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	r.Get("/", healthHandler.Greet)
	r.Get(config.HealthEndpoint, healthHandler.HealthCheck)
	r.Get(config.HealthEndpoint+"/ready", healthHandler.ReadinessCheck)
	r.Get(config.HealthEndpoint+"/live", healthHandler.LivenessCheck)
	r.Get("/version", healthHandler.Version)
	r.Method(http.MethodGet, config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.MetricsHandler, a.ErrorHandler))

	csvHandler := handlers.NewCSVHandler(a.Services.Leads, a.Config.Upload.MaxBytes, a.ErrorHandler, a.Logger)
	r.Mount("/csv-parser", csvHandler.Routes())

	classificationHandler := handlers.NewClassificationHandler(a.Services.Leads, a.Services.Recommendations, validator, a.ErrorHandler, a.Logger)
	r.Mount("/ai-classification", classificationHandler.Routes())

	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, a.Services.Export, validator, a.ErrorHandler, a.Logger)
	r.Mount("/dashboard", dashboardHandler.Routes())
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start binds the listener and serves in the background. A serve failure
// after startup calls cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	a.WebSocketHub.Start()

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.performStartupHealthCheck(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", ln.Addr().String()))
	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (a *Application) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// Stop shuts the server down gracefully
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck logs dependencies that are not ready. It never
// prevents startup.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	status := a.Services.Health.ReadinessCheck(ctx)
	for name, svc := range status.Services {
		a.Logger.InfoContext(ctx, "Dependency status",
			slog.String("dependency", name),
			slog.String("status", svc.Status),
			slog.String("message", svc.Message))
	}
	if status.Status != services.StatusReady {
		a.Logger.WarnContext(ctx, "Service started without all dependencies ready")
	}
}
