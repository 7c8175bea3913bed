package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	appservice "github.com/dashiq/reporting/internal/application/service"
	"github.com/dashiq/reporting/internal/config"
	domainservice "github.com/dashiq/reporting/internal/domain/service"
	"github.com/dashiq/reporting/internal/infrastructure/audit"
	"github.com/dashiq/reporting/internal/infrastructure/monitoring"
	"github.com/dashiq/reporting/internal/infrastructure/persistence/memory"
	"github.com/dashiq/reporting/internal/infrastructure/persistence/postgres"
	redisstore "github.com/dashiq/reporting/internal/infrastructure/persistence/redis"
	"github.com/dashiq/reporting/internal/infrastructure/promptfilter"
	"github.com/dashiq/reporting/internal/interfaces/http/handlers"
	"github.com/dashiq/reporting/internal/interfaces/http/router"
	"github.com/dashiq/reporting/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	tracing, err := monitoring.NewTracingManager(cfg, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize tracing", err)
	}
	defer func() {
		if err := tracing.Shutdown(context.Background()); err != nil {
			appLogger.Warn(ctx, "Tracing shutdown failed", logger.Error(err))
		}
	}()

	db, err := postgres.NewDBConnection(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to connect to database", err)
	}
	defer db.Close()

	// Report cache: Redis when configured, in-process otherwise.
	var cacheManager redisstore.CacheManager
	var cachePinger handlers.Pinger
	if cfg.Redis.Enabled {
		redisConn := redisstore.NewRedisConnection(&cfg.Redis, appLogger)
		if err := redisConn.Connect(); err != nil {
			appLogger.Fatal(ctx, "Failed to connect to Redis", err)
		}
		defer func() {
			if err := redisConn.Close(); err != nil {
				appLogger.Warn(ctx, "Redis close failed", logger.Error(err))
			}
		}()
		cacheManager = redisstore.NewCacheManager(redisConn, appLogger)
		cachePinger = redisConn
	} else {
		appLogger.Info(ctx, "Redis disabled, using in-process report cache")
		cacheManager = memory.NewCacheManager()
	}

	// Audit trail: Kafka when enabled, the audit_events table otherwise.
	var auditService domainservice.AuditService
	if cfg.Kafka.Enabled {
		auditService = audit.NewKafkaPublisher(cfg.Kafka, cfg.Auth.JWTSecret, appLogger)
	} else {
		auditService = audit.NewGormAuditStore(db.DB())
	}
	defer func() {
		if err := auditService.Close(); err != nil {
			appLogger.Warn(ctx, "Audit service close failed", logger.Error(err))
		}
	}()

	metrics := monitoring.NewMetrics()

	reportRepo := postgres.NewInstrumentedReportRepository(
		postgres.NewReportRepository(db, appLogger), metrics)

	dashboardSvc := appservice.NewDashboardAppService(reportRepo, cacheManager, auditService, metrics, appLogger)
	promptChecker := promptfilter.NewClient(cfg.PromptFilter, metrics, appLogger)
	promptCheckSvc := appservice.NewPromptCheckAppService(promptChecker, auditService, appLogger)

	healthHandler := handlers.NewHealthHandler(db, cachePinger, appLogger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc)
	promptHandler := handlers.NewPromptHandler(promptCheckSvc)

	rt := router.NewRouter(cfg, appLogger, healthHandler, dashboardHandler, promptHandler,
		tracing.Tracer(), metrics)

	errCh := make(chan error, 1)
	go func() {
		errCh <- rt.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Fatal(ctx, "HTTP server failed", err)
		}
	case sig := <-quit:
		appLogger.Info(ctx, "Shutting down", logger.String("signal", sig.String()))
		if err := rt.Stop(context.Background()); err != nil {
			appLogger.Error(ctx, "Graceful shutdown failed", err)
		}
	}
}
