package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adhi/internal/accounts"
	"adhi/internal/auth"
	"adhi/internal/cases"
	"adhi/internal/config"
	"adhi/internal/database"
	"adhi/internal/documents"
	"adhi/internal/events"
	"adhi/internal/gateway"
	"adhi/internal/logger"
	"adhi/internal/messages"
	"adhi/internal/metrics"
	"adhi/internal/session"
	"adhi/internal/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	logger.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("Starting mobile gateway",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"session_backend", cfg.SessionBackend,
		"login_destination", cfg.LoginDestination,
	)

	ctx := context.Background()
	checks := make(map[string]gateway.HealthCheck)

	// Session store
	var store session.Store
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			slog.Error("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = session.NewRedisStoreFromClient(client)
		checks["session_store"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
	default:
		store = session.NewMemoryStore()
		slog.Warn("Using in-memory session store; sessions are lost on restart")
	}

	// Accounts
	var repo accounts.Repository
	if cfg.DatabaseURL != "" {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}

		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		repo = accounts.NewPostgresRepository(pool)
		checks["database"] = pool.Ping
		slog.Info("Connected to PostgreSQL")
	} else {
		repo = accounts.NewMemoryRepository()
		slog.Warn("DATABASE_URL not set; accounts are kept in memory")
	}

	caseRepo := cases.NewFixtureRepository()

	// Documents
	var docs *documents.Service
	if cfg.StorageEnabled() {
		storageService, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			slog.Error("Failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		docs = documents.NewService(storageService, caseRepo)
		checks["object_storage"] = storageService.Health
		slog.Info("Object storage initialized", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
	} else {
		slog.Warn("S3_ENDPOINT not set; document routes are disabled")
	}

	router := gateway.SetupRouter(gateway.Dependencies{
		Store:            store,
		Auth:             auth.NewService(repo),
		Cases:            caseRepo,
		Events:           events.NewMemoryRepository(),
		Messages:         messages.NewMemoryRepository(time.Now()),
		Metrics:          metrics.New(),
		Checks:           checks,
		Documents:        docs,
		LoginDestination: cfg.LoginDestination,
		AllowedOrigins:   cfg.AllowedOrigins,
		SecureCookies:    cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		slog.Info("Mobile gateway listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down mobile gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Mobile gateway stopped")
}
