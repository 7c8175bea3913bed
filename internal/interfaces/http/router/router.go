// Package router assembles the gin engine and owns the HTTP server
// lifecycle.
package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/dashiq/reporting/internal/application/dto"
	"github.com/dashiq/reporting/internal/config"
	"github.com/dashiq/reporting/internal/infrastructure/monitoring"
	"github.com/dashiq/reporting/internal/infrastructure/ratelimit"
	"github.com/dashiq/reporting/internal/interfaces/http/handlers"
	"github.com/dashiq/reporting/internal/interfaces/http/middleware"
	"github.com/dashiq/reporting/pkg/constants"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

// Router wires the middleware chain and the reporting routes.
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	logger           logger.Logger
	healthHandler    *handlers.HealthHandler
	dashboardHandler *handlers.DashboardHandler
	promptHandler    *handlers.PromptHandler
	tracer           trace.Tracer
	metrics          *monitoring.Metrics
	server           *http.Server
}

// NewRouter creates the router.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	healthHandler *handlers.HealthHandler,
	dashboardHandler *handlers.DashboardHandler,
	promptHandler *handlers.PromptHandler,
	tracer trace.Tracer,
	metrics *monitoring.Metrics,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{
		engine:           gin.New(),
		config:           cfg,
		logger:           log,
		healthHandler:    healthHandler,
		dashboardHandler: dashboardHandler,
		promptHandler:    promptHandler,
		tracer:           tracer,
		metrics:          metrics,
	}
}

// SetupRoutes registers middleware and routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.Observability(r.tracer, r.metrics, r.logger))

	corsConfig := cors.Config{
		AllowOrigins:     r.config.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           time.Duration(r.config.CORS.MaxAge) * time.Second,
	}
	r.engine.Use(cors.New(corsConfig))

	r.engine.GET("/health", r.healthHandler.LivenessCheck)
	r.engine.GET("/health/ready", r.healthHandler.ReadinessCheck)

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.config.Server.PprofEnabled {
		pprof.Register(r.engine)
	}

	api := r.engine.Group("/api")
	api.Use(middleware.TenantAuth(r.config.Auth, r.logger))
	if r.config.RateLimit.Enabled {
		limiter := ratelimit.NewTenantLimiter(r.config.RateLimit.PerMinute, r.config.RateLimit.Burst)
		api.Use(middleware.RateLimit(limiter, r.logger))
	}
	{
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/kpi", r.dashboardHandler.KPI)
			dashboard.GET("/department-usage", r.dashboardHandler.DepartmentUsage)
			dashboard.GET("/recent-events", r.dashboardHandler.RecentEvents)
			dashboard.GET("/shadow-ai-heatmap", r.dashboardHandler.ShadowHeatmap)
			dashboard.GET("/users-trend", r.dashboardHandler.UsersTrend)
			dashboard.GET("/model-distribution", r.dashboardHandler.ModelDistribution)
			dashboard.GET("/department-distribution", r.dashboardHandler.DepartmentDistribution)
			dashboard.GET("/usage-trend", r.dashboardHandler.UsageTrend)
			dashboard.GET("/user-statistics", r.dashboardHandler.UserStatistics)
			dashboard.GET("/chart-data", r.dashboardHandler.ChartData)
		}
		api.POST("/prompt/check", r.promptHandler.Check)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		dto.SendError(c, apperrors.ErrNotFound(c.Request.URL.Path))
	})
}

// Start runs the HTTP server until Stop is called.
func (r *Router) Start() error {
	r.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    time.Duration(r.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(r.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(r.config.Server.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	r.logger.Info(context.Background(), "starting HTTP server", logger.String("address", addr))

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultShutdownTimeout)
	defer cancel()

	r.logger.Info(ctx, "stopping HTTP server")
	return r.server.Shutdown(ctx)
}

// Engine exposes the gin engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
