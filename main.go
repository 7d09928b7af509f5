package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/internship-tracker/internal/cache"
	"github.com/SAP-F-2025/internship-tracker/internal/config"
	"github.com/SAP-F-2025/internship-tracker/internal/events"
	"github.com/SAP-F-2025/internship-tracker/internal/handlers"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories/postgres"
	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/session"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
	"github.com/SAP-F-2025/internship-tracker/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		var connErr *pkg.ConnectionError
		if errors.As(err, &connErr) {
			fmt.Fprintln(os.Stderr, connErr.Error())
			fmt.Fprint(os.Stderr, connErr.Guidance())
			os.Exit(1)
		}
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:           db,
		Logger:       slogLogger,
		AutoMigrate:  true,
		SeedDemoData: cfg.SeedDemoData,
	})
	if err := repoManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Sessions and the analytics cache use Redis when configured
	checks := map[string]handlers.HealthCheck{}
	var redisClient *redis.Client
	var sessionStore session.Store
	var reportCache *cache.CacheHelper
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		redisStore := session.NewRedisStore(redisClient, session.DefaultKeyPrefix)
		checks["redis"] = redisStore.Ping
		sessionStore = redisStore
		reportCache = cache.NewCacheHelper(redisClient, cache.AnalyticsCacheConfig)
	} else {
		logger.Warn("REDIS_URL not set, sessions are kept in memory")
		sessionStore = session.NewMemoryStore(session.DefaultCleanupInterval)
	}
	sessionManager := session.NewManager(sessionStore, cfg.Session.TTL, nil)

	// Initialize event publisher
	publisher, err := events.NewWatermillPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.Events.KafkaBrokers,
		TopicPrefix:  cfg.Events.TopicPrefix,
	}, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(repoManager.GetRepository(), sessionManager, publisher, slogLogger, validator.New(), services.ServiceManagerConfig{
		TopCompanies:   services.DefaultTopCompanies,
		Now:            time.Now,
		Location:       cfg.Timezone,
		DefaultTimeout: 30 * time.Second,
		ReportCache:    reportCache,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, sessionManager, handlers.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	}, logger, checks)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	if err := handlerManager.SetupRoutes(router); err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "timezone", cfg.Timezone.String(), "kafka", cfg.Events.KafkaEnabled())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Closes the event publisher
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	// Closes the database pool
	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("Server exited")
}
