package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/adapters/cache"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/adapters/database"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/adapters/spreadsheet"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/api/handlers"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/api/routes"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/application/services"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/providers"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/repositories"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/clients/gemini"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/clients/postgres"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/clients/redis"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/observability"
	"github.com/thuynguyen-hospital/surgical-review/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

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
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client
	// Continue without Redis - the application can work without caching
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client")
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	var configRepo repositories.ConfigRepository = database.NewConfigAdapter(pgClient)
	if cacheProvider != nil {
		configRepo = database.NewCachedConfigAdapter(configRepo, cacheProvider)
		log.Info().Msg("config adapter wrapped with caching layer")
	}

	runHistoryRepo := database.NewRunHistoryAdapter(sqlx.NewDb(pgClient.DB(), "postgres"))

	// Initialize the narrative provider when an API key is configured
	var narrativeService *services.NarrativeService
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set; narrative generation disabled")
	} else {
		geminiClient, err := gemini.NewClient(&cfg.Gemini)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Gemini client")
		} else {
			narrativeService = services.NewNarrativeService(geminiClient, metrics)
		}
	}

	// Initialize services
	configService := services.NewConfigService(configRepo, *observability.GetLogger())
	processingService := services.NewProcessingService(
		services.NewReportValidator(),
		services.NewMachineMapService(),
		services.NewRecordService(),
		services.NewConflictService(),
		services.NewPaymentService(),
		runHistoryRepo,
		metrics,
	)

	// Initialize handlers
	reportHandler := handlers.NewReportHandler(
		spreadsheet.NewReader(),
		spreadsheet.NewWriter(cfg.Hospital.Authority, cfg.Hospital.Name),
		processingService,
		configService,
	)
	configHandler := handlers.NewConfigHandler(configService)
	narrativeHandler := handlers.NewNarrativeHandler(narrativeService)

	// Set up router
	router := routes.NewRouter(reportHandler, configHandler, narrativeHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
