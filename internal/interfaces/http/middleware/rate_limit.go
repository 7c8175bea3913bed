package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dashiq/reporting/internal/application/dto"
	"github.com/dashiq/reporting/internal/infrastructure/ratelimit"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

// RateLimit enforces the per-tenant request budget. It must run after
// TenantAuth so the tenant is already resolved; unauthenticated
// requests pass through for the auth middleware to reject.
func RateLimit(limiter *ratelimit.TenantLimiter, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := TenantID(c)
		if !ok {
			c.Next()
			return
		}

		if !limiter.Allow(tenantID) {
			retryAfter := limiter.RetryAfter(tenantID)
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))

			log.Warn(c.Request.Context(), "tenant exceeded request budget",
				logger.Int64("tenant_id", tenantID),
				logger.String("path", c.Request.URL.Path))
			dto.SendAbort(c, apperrors.ErrRateLimited("too many requests"))
			return
		}

		c.Next()
	}
}
