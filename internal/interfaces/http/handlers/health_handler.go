package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dashiq/reporting/internal/application/dto"
	"github.com/dashiq/reporting/pkg/logger"
)

// Pinger is the health contract a dependency exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides the liveness and readiness endpoints.
type HealthHandler struct {
	db    Pinger
	cache Pinger
	log   logger.Logger
}

// NewHealthHandler creates a new HealthHandler. cache may be nil when
// the in-process fallback cache is active.
func NewHealthHandler(db, cache Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, log: log}
}

// LivenessCheck handles GET /health. It only reports that the process
// serves traffic.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /health/ready. Dependencies are checked
// concurrently; any failure yields 503.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	checks := h.performChecks(c.Request.Context())

	status := "ok"
	httpStatus := http.StatusOK
	for _, checkStatus := range checks {
		if checkStatus != "ok" {
			status = "unavailable"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		checks = make(map[string]string)
	)

	check := func(name string, dep Pinger) {
		defer wg.Done()
		status := "ok"
		if err := dep.Ping(ctx); err != nil {
			h.log.Warn(ctx, "dependency check failed",
				logger.String("dependency", name),
				logger.Error(err))
			status = "error: " + err.Error()
		}
		mu.Lock()
		checks[name] = status
		mu.Unlock()
	}

	wg.Add(1)
	go check("database", h.db)
	if h.cache != nil {
		wg.Add(1)
		go check("redis", h.cache)
	}
	wg.Wait()
	return checks
}
