package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/adapters/events"
	"github.com/SscSPs/multicurrency_ledger/internal/adapters/rateprovider"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	portsevents "github.com/SscSPs/multicurrency_ledger/internal/core/ports/events"
	"github.com/SscSPs/multicurrency_ledger/internal/core/services"
	"github.com/SscSPs/multicurrency_ledger/internal/handlers"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/SscSPs/multicurrency_ledger/internal/platform/config"
	"github.com/SscSPs/multicurrency_ledger/internal/platform/metrics"
	"github.com/SscSPs/multicurrency_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/multicurrency_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// @title Multi-Currency Ledger API
// @version 1.0
// @description Double-entry bookkeeping with multi-currency transactions, exchange rates and approvals.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	// --- Run Database Migrations ---
	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{Ping: cfg.EnableDBCheck})
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("Failed to register metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	providers, err := config.LoadProviders(cfg.RateProvidersFile)
	if err != nil {
		logger.Error("Failed to load rate providers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	table := exchange.NewDefaultRateTable()

	publisher := newPublisher(cfg, logger)
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, services.Engine{
		Table:     table,
		Pivots:    cfg.PivotCurrencies,
		OnResolve: metrics.ObserveConversion[domain.ConversionMethod],
		Fetcher:   rateprovider.NewClient(rateprovider.WithRequestsPerSecond(cfg.RateProviderRPS)),
		Publisher: publisher,
		Providers: providers,
	})

	if err := serviceContainer.Currency.LoadSettings(ctx); err != nil {
		logger.Error("Failed to load currency settings", slog.String("error", err.Error()))
		os.Exit(1)
	}
	go serviceContainer.RateRefresh.Run(ctx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics, CORS)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.PrometheusMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	apiLimiter, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, middleware.RateLimit(apiLimiter))

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
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}

// newPublisher returns a Kafka publisher when brokers are configured, otherwise one that logs events.
func newPublisher(cfg *config.Config, logger *slog.Logger) portsevents.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, logging events instead")
		return events.NewLogPublisher(logger)
	}
	logger.Info("Publishing events to Kafka", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
