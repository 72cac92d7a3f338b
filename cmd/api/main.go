package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ortocare/clinic-platform/cmd/mainconfig"
	"github.com/ortocare/clinic-platform/internal/api/router"
	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/archive"
	"github.com/ortocare/clinic-platform/internal/assessments"
	"github.com/ortocare/clinic-platform/internal/assistant"
	appconfig "github.com/ortocare/clinic-platform/internal/config"
	"github.com/ortocare/clinic-platform/internal/dashboard"
	"github.com/ortocare/clinic-platform/internal/finance"
	"github.com/ortocare/clinic-platform/internal/indicators"
	"github.com/ortocare/clinic-platform/internal/inventory"
	"github.com/ortocare/clinic-platform/internal/observability/metrics"
	"github.com/ortocare/clinic-platform/internal/patients"
	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/internal/session"
	"github.com/ortocare/clinic-platform/internal/state"
	"github.com/ortocare/clinic-platform/internal/stream"
	"github.com/ortocare/clinic-platform/internal/workshop"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

func main() {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.SessionSecret == "" {
		logger.Error("SESSION_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	syncMetrics := metrics.NewSyncMetrics(registry)
	assistantMetrics := metrics.NewAssistantMetrics(registry)

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Realtime document backend. Both the table and Redis must be set;
	// otherwise the dashboard runs on seeded in-memory data alone.
	var bridge *realtime.Bridge
	if cfg.SyncConfigured() {
		dynamoClient := dynamodb.NewFromConfig(awsCfg)
		store := realtime.NewDynamoStore(dynamoClient, cfg.SyncTable, logger)

		redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		notifier := realtime.NewRedisNotifier(redis.NewClient(redisOpts))

		bridge = realtime.NewBridge(store, notifier, logger, syncMetrics)
		logger.Info("realtime sync configured", "table", cfg.SyncTable)
	} else {
		bridge = realtime.NewBridge(nil, nil, logger, syncMetrics)
		logger.Warn("realtime sync not configured, running on local session data")
	}

	container := state.NewContainer(logger, syncMetrics)
	if err := container.AttachBridge(ctx, bridge); err != nil {
		logger.Error("failed to attach state container to sync backend", "error", err)
		os.Exit(1)
	}
	defer container.DetachBridge()

	hub := stream.NewHub(logger)
	if err := hub.AttachBridge(ctx, bridge); err != nil {
		logger.Error("failed to attach stream hub to sync backend", "error", err)
		os.Exit(1)
	}
	defer hub.DetachBridge()

	// Finalized assessments are archived to S3 when a bucket is set.
	var archiver assessments.Archiver
	if cfg.ArchiveBucket != "" {
		archiver = archive.NewStore(s3.NewFromConfig(awsCfg), cfg.ArchiveBucket, logger)
		logger.Info("assessment archive configured", "bucket", cfg.ArchiveBucket)
	}
	assessmentSvc := assessments.NewService(container.Patients, archiver, logger)

	assistantSvc := buildAssistant(ctx, cfg, awsCfg, logger, assistantMetrics)

	sessionSvc := session.NewService(cfg.SessionSecret, cfg.SharedPassword, cfg.SessionTTL)

	routerCfg := &router.Config{
		Logger:            logger,
		SessionHandler:    session.NewHandler(sessionSvc, logger),
		SessionService:    sessionSvc,
		PatientsHandler:   patients.NewHandler(container.Patients, bridge, logger),
		AssessmentHandler: assessments.NewHandler(assessmentSvc, logger),
		WorkshopHandler:   workshop.NewHandler(container.Orders, bridge, logger),
		InventoryHandler:  inventory.NewHandler(container.Inventory, bridge, logger),
		CalendarHandler:   appointments.NewHandler(container.Appointments, bridge, logger),
		AssistantHandler:  assistant.NewHandler(assistantSvc, logger),
		StreamHandler:     stream.NewHandler(hub, logger),
		DashboardHandler: dashboard.NewHandler(
			container.Patients,
			container.Orders,
			container.Inventory,
			container.Appointments,
			logger,
		),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	// Finance and indicators need Postgres.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		sqlDB := stdlib.OpenDBFromPool(pool)
		defer sqlDB.Close()

		routerCfg.FinanceHandler = finance.NewHandler(finance.NewRepository(pool), logger)
		routerCfg.IndicatorsHandler = indicators.NewHandler(indicators.NewRepository(sqlDB), logger)
		logger.Info("postgres modules enabled")
	} else {
		logger.Warn("DATABASE_URL not set, finance and indicators disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildAssistant wires the analysis chain: Gemini primary, Bedrock
// secondary, canned fallback. Either client may be absent.
func buildAssistant(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger, m *metrics.AssistantMetrics) *assistant.Service {
	var primary assistant.LLMClient
	if cfg.GeminiAPIKey != "" {
		client, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to initialize gemini client", "error", err)
		} else {
			primary = client
			logger.Info("gemini assistant client initialized", "model", cfg.GeminiModelID)
		}
	}

	var secondary assistant.LLMClient
	if cfg.BedrockModelID != "" {
		secondary = assistant.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg))
		logger.Info("bedrock assistant client initialized", "model", cfg.BedrockModelID)
	}

	if primary == nil && secondary == nil {
		logger.Warn("no assistant model configured, analyses will return the fallback text")
	}
	return assistant.NewService(primary, secondary, cfg.BedrockModelID, logger, m)
}
