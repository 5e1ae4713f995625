package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/GriffinCanCode/NexusOS/backend/internal/api/http"
	"github.com/GriffinCanCode/NexusOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/NexusOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/service"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/session"
	grpcapi "github.com/GriffinCanCode/NexusOS/backend/internal/grpc"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/assistant"
	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/settings"
	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/storage"
	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/system"
	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/terminal"
)

const healthInterval = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	health   *grpcapi.HealthServer
	apps     *registry.Manager
	sessions *session.Manager
	services *service.Registry
	tracer   *tracing.Tracer
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing NexusOS desktop server",
		zap.String("port", cfg.Server.Port),
		zap.Int("viewport_width", cfg.Viewport.Width),
		zap.Int("viewport_height", cfg.Viewport.Height),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("desktop", logger.ForComponent("tracing"))

	// Application registry is loaded once and never changes
	apps, err := registry.Load(cfg.Registry.Manifest, registry.DefaultCatalog())
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to load application registry: %w", err)
	}
	metrics.SetRegistryApps(apps.Len())
	logger.Info("Application registry loaded",
		zap.Int("apps", apps.Len()),
		zap.String("manifest", cfg.Registry.Manifest),
	)

	gate, err := session.NewGate(cfg.Gate.Passwords, 0)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to create session gate: %w", err)
	}
	sessions := session.NewManager(gate, apps, logger).WithMetrics(metrics)

	// Collaborator services
	services := service.NewRegistry(logger.ForComponent("services")).WithMetrics(metrics)
	assistantClient := assistant.NewClient(assistant.Config{
		APIKey:     cfg.Assistant.APIKey,
		Model:      cfg.Assistant.Model,
		BaseURL:    cfg.Assistant.BaseURL,
		Timeout:    cfg.Assistant.Timeout,
		MaxRetries: 2,
		RetryWait:  500 * time.Millisecond,
		RateLimit:  2,
	}, logger.ForComponent("assistant"))
	if !assistantClient.Configured() {
		logger.Warn("Assistant API key not set, chat replies will report the missing key")
	}
	if err := services.Register(system.NewProvider(sessions, logger.ForComponent("system"))); err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to register system provider: %w", err)
	}
	if err := registerProviders(services, cfg, assistantClient); err != nil {
		tracer.Close()
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	viewport := desktop.Viewport{
		Width:       cfg.Viewport.Width,
		Height:      cfg.Viewport.Height,
		DockReserve: cfg.Viewport.DockReserve,
	}

	handlers := httpapi.NewHandlers(sessions, apps, services, viewport, logger.ForComponent("http"))
	httpapi.RegisterRoutes(router, handlers, middleware.RequireDesktop(sessions))

	wsHandler := ws.NewHandler(sessions, apps, viewport, logger.ForComponent("ws")).WithMetrics(metrics)
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	var health *grpcapi.HealthServer
	if cfg.GRPC.Enabled {
		health = grpcapi.NewHealthServer(tracer, logger.ForComponent("grpc"))
		health.Register(grpcapi.ServiceDesktop, func() bool { return true })
		health.Register(grpcapi.ServiceAssistant, func() bool {
			return assistantClient.Configured() && assistantClient.BreakerState() != resilience.StateOpen
		})
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health:   health,
		apps:     apps,
		sessions: sessions,
		services: services,
		tracer:   tracer,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Handler returns the HTTP handler with every route mounted
func (s *Server) Handler() http.Handler {
	return s.router
}

// Apps returns the application registry
func (s *Server) Apps() *registry.Manager {
	return s.apps
}

// Run starts the HTTP server, and the gRPC health server when enabled.
// It blocks until the HTTP server stops.
func (s *Server) Run() error {
	if s.health != nil {
		s.health.Watch(healthInterval)
		go func() {
			if err := s.health.ListenAndServe(s.config.GRPC.Address); err != nil {
				s.logger.Error("gRPC health server failed", zap.Error(err))
			}
		}()
	}

	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, ends every desktop session and
// flushes spans and logs
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown did not complete", zap.Error(err))
	}

	if s.health != nil {
		s.health.Stop()
	}

	s.sessions.Close()
	s.tracer.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return err
}

func registerProviders(registry *service.Registry, cfg *config.Config, assistantClient *assistant.Client) error {
	tree, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage tree: %w", err)
	}
	if err := registry.Register(storage.NewProvider(tree)); err != nil {
		return fmt.Errorf("failed to register storage provider: %w", err)
	}

	store, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	if err := registry.Register(settings.NewProvider(store)); err != nil {
		return fmt.Errorf("failed to register settings provider: %w", err)
	}

	if err := registry.Register(assistant.NewProvider(assistantClient)); err != nil {
		return fmt.Errorf("failed to register assistant provider: %w", err)
	}

	if err := registry.Register(terminal.NewProvider()); err != nil {
		return fmt.Errorf("failed to register terminal provider: %w", err)
	}
	return nil
}
