package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/adapter/cache"
	"github.com/avilaops/canaswarm-intelligence/internal/adapter/external/notification"
	"github.com/avilaops/canaswarm-intelligence/internal/adapter/http/fiber/handlers"
	"github.com/avilaops/canaswarm-intelligence/internal/adapter/http/fiber/middleware"
	"github.com/avilaops/canaswarm-intelligence/internal/adapter/queue"
	"github.com/avilaops/canaswarm-intelligence/internal/adapter/storage/postgres"
	"github.com/avilaops/canaswarm-intelligence/internal/adapter/vault"
	wsAdapter "github.com/avilaops/canaswarm-intelligence/internal/adapter/websocket"
	"github.com/avilaops/canaswarm-intelligence/internal/infrastructure/circuitbreaker"
	"github.com/avilaops/canaswarm-intelligence/internal/observability/telemetry"
	"github.com/avilaops/canaswarm-intelligence/internal/ports"
	"github.com/avilaops/canaswarm-intelligence/internal/service/alerting"
	"github.com/avilaops/canaswarm-intelligence/internal/service/decision"
	"github.com/avilaops/canaswarm-intelligence/internal/service/email"
	"github.com/avilaops/canaswarm-intelligence/internal/service/health"
	"github.com/avilaops/canaswarm-intelligence/internal/service/ingestor"
	"github.com/avilaops/canaswarm-intelligence/pkg/config"
)

const (
	serviceName    = "canaswarm-intelligence"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting CanaSwarm Intelligence",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 3. Optional Vault secret source
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token, cfg.Vault.Path)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		if key, err := sm.GetPrecisionAPIKey(); err == nil {
			cfg.Precision.APIKey = key
		}
		if secret, err := sm.GetJWTSecret(); err == nil {
			cfg.JWT.Secret = secret
		}
		if url, err := sm.GetDatabaseURL(); err == nil {
			cfg.Database.URL = url
		}
		logger.Info("Secrets loaded from Vault", zap.String("path", cfg.Vault.Path))
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.OpenTelemetry.Jaeger.Endpoint, serviceVersion)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache (Redis with in-memory fallback)
	var appCache ports.Cache
	if cfg.Redis.Enabled {
		appCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to local cache", zap.Error(err))
			appCache = cache.NewLocalCache(time.Minute, logger)
		}
	} else {
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue.Driver, cfg.Queue.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	reportRepo := postgres.NewReportRepository(db, logger)
	decisionRepo := postgres.NewDecisionRepository(db, logger)

	// 9. Initialize Services (Business Logic Layer)
	decisionService := decision.NewService(decisionRepo, logger)

	emailService, err := email.NewService(&email.Config{
		Provider:       cfg.Alerts.Email.Provider,
		FromEmail:      cfg.Alerts.Email.From,
		FromName:       cfg.Alerts.Email.FromName,
		SendGridAPIKey: cfg.Alerts.Email.APIKey,
		SMTPHost:       cfg.Alerts.Email.SMTPHost,
		SMTPPort:       cfg.Alerts.Email.SMTPPort,
		BaseURL:        cfg.Alerts.Email.BaseURL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}

	smsAdapter := notification.NewSMSAdapter(
		cfg.Alerts.SMS.AccountSID,
		cfg.Alerts.SMS.AuthToken,
		cfg.Alerts.SMS.From,
		logger,
	)

	wsHub := wsAdapter.NewHub()
	go wsHub.Run()

	dispatcher := alerting.NewDispatcher(messageQueue, emailService, smsAdapter, wsHub, alerting.Config{
		EmailRecipient:    cfg.Alerts.Email.Recipient,
		SMSRecipients:     cfg.Alerts.SMS.Recipients,
		SMSOnCriticalOnly: cfg.Alerts.SMSOnCriticalOnly,
	}, logger)

	// Outbound circuit breaker around the Precision Platform client
	breakerSettings := circuitbreaker.DefaultHTTPClientSettings("precision-platform")
	if cfg.Precision.Timeout > 0 {
		breakerSettings.Timeout = cfg.Precision.Timeout
	}
	if cfg.CircuitBreaker.ConsecutiveFailures > 0 {
		breakerSettings.FailureThreshold = uint32(cfg.CircuitBreaker.ConsecutiveFailures)
	}
	if cfg.CircuitBreaker.OpenTimeout > 0 {
		breakerSettings.BreakerTimeout = cfg.CircuitBreaker.OpenTimeout
	}
	breakerClient := circuitbreaker.NewHTTPClientWithSettings(breakerSettings, logger)

	precisionClient := ingestor.NewPrecisionClient(&ingestor.ClientConfig{
		BaseURL:      cfg.Precision.BaseURL,
		APIKey:       cfg.Precision.APIKey,
		Timeout:      cfg.Precision.Timeout,
		MaxRetries:   cfg.Precision.MaxRetries,
		RetryBackoff: cfg.Precision.RetryBackoff,
	}, breakerClient, logger)

	classifier := ingestor.NewClassifier(cfg.Classification.CriticalThreshold)

	cacheTTL := cfg.Cache.ClassifiedReportTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	ingestorService := ingestor.NewService(
		precisionClient,
		classifier,
		reportRepo,
		decisionService,
		dispatcher,
		appCache,
		messageQueue,
		cacheTTL,
		logger,
	)

	// 10. Optional batch refresh of a fixed field list
	batchCtx, cancelBatch := context.WithCancel(context.Background())
	defer cancelBatch()
	if cfg.Batch.Enabled && len(cfg.Batch.Fields) > 0 {
		runner := ingestor.NewBatchRunner(
			ingestorService,
			cfg.Batch.Fields,
			cfg.Batch.Interval,
			cfg.Batch.MaxConcurrency,
			logger,
		)
		go runner.Run(batchCtx)
	}

	// 11. Health checks
	healthService := health.NewService(&health.Config{
		Version:     serviceVersion,
		DB:          sqlDB,
		Cache:       appCache,
		NatsURL:     cfg.Queue.URL,
		UpstreamURL: cfg.Precision.BaseURL,
	}, logger)

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	} else {
		app.Use(middleware.DefaultCORS())
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	// Health probes
	healthHandler := health.NewFiberHandler(healthService)
	healthHandler.RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		path := cfg.Prometheus.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, func(c *fiber.Ctx) error {
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	v1 := app.Group("/api/v1")

	fieldHandler := handlers.NewFieldHandler(ingestorService, decisionService, logger)
	v1.Get("/decision", fieldHandler.GetDecision)
	v1.Get("/fields", fieldHandler.ListFields)
	v1.Get("/reports", fieldHandler.GetReports)
	v1.Get("/alerts", fieldHandler.GetAlerts)

	// Mutating routes require a bearer token when a secret is configured.
	refresh := v1.Group("")
	if cfg.JWT.Secret != "" {
		refresh.Use(middleware.AuthRequired(cfg.JWT.Secret))
	}
	refresh.Post("/fields/:id/refresh", fieldHandler.Refresh)

	// WebSocket alert stream
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/alerts", websocket.New(func(c *websocket.Conn) {
		wsHub.AddClient(c, c.Query("field_id"))
	}))

	// 13. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancelBatch()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
