package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/mma_fx/internal/adapters/rates"
	fxredis "github.com/SscSPs/mma_fx/internal/adapters/redis"
	portsrepo "github.com/SscSPs/mma_fx/internal/core/ports/repositories"
	"github.com/SscSPs/mma_fx/internal/core/services"
	"github.com/SscSPs/mma_fx/internal/handlers"
	"github.com/SscSPs/mma_fx/internal/middleware"
	"github.com/SscSPs/mma_fx/internal/platform/config"
	"github.com/SscSPs/mma_fx/internal/repositories/database/pgsql"
	"github.com/SscSPs/mma_fx/pkg/database"
	"github.com/gin-gonic/gin"
)

const migrationsPath = "file://migrations"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(logger, cfg.DatabaseURL, migrationsPath); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	provider := newRateProvider(ctx, cfg, logger)
	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool, provider))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// newRateProvider builds the HTTP provider and, when REDIS_URL is set, puts
// the shared redis store in front of it. An unreachable redis is not fatal.
func newRateProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) portsrepo.RateProvider {
	var provider portsrepo.RateProvider = rates.NewHTTPProvider(cfg.FXProviderURL,
		rates.WithRequestTimeout(cfg.FXFetchTimeout),
		rates.WithRetries(cfg.FXFetchRetries, cfg.FXRetryBackoff),
	)
	if cfg.RedisURL == "" {
		return provider
	}

	client, err := fxredis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("Redis unavailable, rates will not be shared between instances", slog.String("error", err.Error()))
		return provider
	}
	logger.Info("Sharing rate tables through redis")
	return fxredis.NewRateStore(client, provider, cfg.FXCacheTTL)
}
