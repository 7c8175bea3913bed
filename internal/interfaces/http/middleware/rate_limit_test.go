package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dashiq/reporting/internal/infrastructure/ratelimit"
	"github.com/dashiq/reporting/pkg/constants"
	"github.com/dashiq/reporting/pkg/logger"
)

func newRateLimitRouter(limiter *ratelimit.TenantLimiter, tenantID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	if tenantID > 0 {
		engine.Use(func(c *gin.Context) {
			c.Set(string(constants.ContextKeyTenantID), tenantID)
			c.Next()
		})
	}
	engine.Use(RateLimit(limiter, logger.NewNoopLogger()))
	engine.GET("/probe", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	limiter := ratelimit.NewTenantLimiter(60, 1)
	engine := newRateLimitRouter(limiter, 7)

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "rate_limited")
}

func TestRateLimitIsolatesTenants(t *testing.T) {
	limiter := ratelimit.NewTenantLimiter(60, 1)

	tenantA := newRateLimitRouter(limiter, 1)
	exhausted := httptest.NewRecorder()
	tenantA.ServeHTTP(exhausted, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, exhausted.Code)

	tenantB := newRateLimitRouter(limiter, 2)
	fresh := httptest.NewRecorder()
	tenantB.ServeHTTP(fresh, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, fresh.Code)
}

func TestRateLimitSkipsUnresolvedTenant(t *testing.T) {
	limiter := ratelimit.NewTenantLimiter(60, 1)
	engine := newRateLimitRouter(limiter, 0)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
