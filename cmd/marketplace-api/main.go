package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/di"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/gateway"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/metrics"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/service"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/migrations"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/config"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/database"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/middleware"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/redis"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/telemetry"
)

const serviceName = "marketplace-api"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Marketplace API...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	if err := metrics.Init(); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db, migrations.FS, "up")
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Migration failed: %v", err))
		}
		for _, line := range applied {
			appLog.Info(line)
		}
	}

	// Initialize Redis connection (optional - list cache and shared submission lock are disabled without it)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisCfg := &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		}
		redisClient, err = redis.NewClient(ctx, redisCfg)
		if err != nil {
			appLog.Warn(fmt.Sprintf("Redis connection failed (caching disabled): %v", err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))
		}
	}

	// Initialize Kafka catalog publisher
	var publisher service.CatalogPublisher
	publisher, err = service.NewKafkaCatalogPublisher(ctx, &service.CatalogPublisherConfig{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.CatalogTopic,
		ClientID:    cfg.Kafka.ClientID,
		ServiceName: serviceName,
	}, appLog)
	if err != nil {
		appLog.Warn(fmt.Sprintf("Kafka unavailable, using no-op catalog publisher: %v", err))
		publisher = service.NewNoOpCatalogPublisher()
	} else {
		appLog.Info(fmt.Sprintf("Kafka catalog publisher connected (%s)", strings.Join(cfg.Kafka.Brokers, ",")))
	}
	defer publisher.Close()

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:               db,
		Redis:            redisClient,
		Log:              appLog,
		CatalogPublisher: publisher,
		AddressConfig: &gateway.AddressClientConfig{
			BaseURL:    cfg.AddressLookup.BaseURL,
			Timeout:    cfg.AddressLookup.Timeout,
			MaxRetries: cfg.AddressLookup.MaxRetries,
		},
		ServiceConfig: &service.EventServiceConfig{
			GatewayTimeout:    cfg.Wizard.GatewayTimeout,
			SubmissionLockTTL: cfg.Wizard.SubmissionLockTTL,
		},
		CatalogCacheTTL: cfg.Wizard.CatalogCacheTTL,
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(appLog))
	router.Use(middleware.Logger(appLog, "/health", "/ready"))

	// Add OpenTelemetry tracing middleware if enabled
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(serviceName))
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	authCfg := middleware.AuthConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}

	// Replays resent wizard submissions; skipped without Redis
	var idempotent gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if redisClient != nil {
		idempotent = middleware.Idempotency(middleware.IdempotencyConfig{Redis: redisClient})
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Public catalog
		events := v1.Group("/events")
		{
			events.GET("", container.EventHandler.ListCatalog)
			events.GET("/:id", container.EventHandler.GetPublic)
		}

		// Manager back office (Manager/Admin only)
		manager := v1.Group("/manager")
		manager.Use(middleware.Auth(authCfg))
		manager.Use(middleware.RequireRole(string(domain.RoleManager), string(domain.RoleAdmin)))
		{
			manager.GET("/contract", container.ContractHandler.Active)
			manager.GET("/address/:cep", container.AddressHandler.Lookup)

			managerEvents := manager.Group("/events")
			{
				managerEvents.GET("", container.EventHandler.ListMine)
				managerEvents.POST("", idempotent, container.EventHandler.Create)

				// Wizard helpers, registered before /:id
				managerEvents.GET("/wizard", container.WizardHandler.Context)
				managerEvents.POST("/wizard/steps", container.WizardHandler.ResolveStep)
				managerEvents.POST("/wizard/batches", container.WizardHandler.SyncBatches)
				managerEvents.POST("/wizard/validate", container.WizardHandler.Validate)

				managerEvents.GET("/:id", container.EventHandler.GetManaged)
				managerEvents.PUT("/:id", idempotent, container.EventHandler.Update)
			}
		}

		// Administration (Admin only)
		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(authCfg))
		admin.Use(middleware.RequireRole(string(domain.RoleAdmin)))
		{
			admin.GET("/events", container.EventHandler.AdminList)
			admin.PATCH("/events/:id/status", container.EventHandler.UpdateStatus)

			contracts := admin.Group("/contracts")
			{
				contracts.GET("", container.ContractHandler.List)
				contracts.POST("", container.ContractHandler.Create)
				contracts.GET("/:id", container.ContractHandler.Get)
				contracts.PUT("/:id", container.ContractHandler.Update)
				contracts.GET("/:id/preview", container.ContractHandler.Preview)
				contracts.POST("/:id/activate", container.ContractHandler.Activate)
			}

			ranges := admin.Group("/commission-ranges")
			{
				ranges.GET("", container.CommissionHandler.List)
				ranges.POST("", container.CommissionHandler.Create)
				ranges.PUT("/:id", container.CommissionHandler.Update)
				ranges.DELETE("/:id", container.CommissionHandler.Deactivate)
				ranges.GET("/:id/history", container.CommissionHandler.History)
			}
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Marketplace API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
