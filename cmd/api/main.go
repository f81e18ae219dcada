package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skinsight/diagnosis/backend/internal/adapters/cache"
	"github.com/skinsight/diagnosis/backend/internal/adapters/database"
	"github.com/skinsight/diagnosis/backend/internal/adapters/providers/imaging"
	"github.com/skinsight/diagnosis/backend/internal/api/handlers"
	"github.com/skinsight/diagnosis/backend/internal/api/routes"
	"github.com/skinsight/diagnosis/backend/internal/application/services"
	"github.com/skinsight/diagnosis/backend/internal/domain/catalog"
	"github.com/skinsight/diagnosis/backend/internal/domain/repositories"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/clients/postgres"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/clients/redis"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/observability"
	"github.com/skinsight/diagnosis/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Load the condition catalog
	cat, err := catalog.Load(cfg.Engine.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Engine.CatalogPath).Msg("Failed to load condition catalog")
	}
	log.Info().
		Int("conditions", cat.Len()).
		Strs("image_labels", cat.ImageLabels()).
		Msg("Condition catalog loaded")

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// History store, wrapped with a Redis cache when one is reachable
	var historyRepo repositories.DiagnosisHistoryRepository = database.NewDiagnosisHistoryAdapter(pgClient, metrics)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			// Continue without Redis - history reads go straight to PostgreSQL
			log.Warn().Err(err).Msg("Failed to initialize Redis client, history cache disabled")
		} else {
			defer redisClient.Close()
			cacheProvider := cache.NewRedisAdapter(redisClient, "skin:")
			historyRepo = database.NewCachedDiagnosisHistoryAdapter(historyRepo, cacheProvider, cfg.History.CacheTTLSeconds, metrics)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("History cache enabled")
		}
	}

	// Initialize services
	classifier := imaging.NewStubClassifier(cat.ImageLabels(), cfg.Engine.ImageAnalysisDelay)
	diagnosisService := services.NewDiagnosisService(cat, classifier)
	diagnosisService.SetMetrics(metrics)
	historyService := services.NewHistoryService(historyRepo, cfg.History.DefaultLimit)

	// Initialize handlers
	diagnosisHandler := handlers.NewDiagnosisHandler(diagnosisService, historyService, cat, cfg.Server.MaxUploadBytes)

	// Set up router
	router := routes.NewRouter(diagnosisHandler, cfg.Server.AllowedOrigins, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
