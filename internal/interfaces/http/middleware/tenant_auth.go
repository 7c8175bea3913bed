// Package middleware holds the gin middleware chain: tenant auth,
// observability and response caching.
package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dashiq/reporting/internal/application/dto"
	"github.com/dashiq/reporting/internal/config"
	"github.com/dashiq/reporting/pkg/constants"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

// extractBearer extracts the token from the Authorization header.
func extractBearer(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// TenantAuth resolves the caller's tenant from the tenant_id claim of an
// HS256 bearer token. Without a token the configured dev tenant is used;
// when that fallback is disabled the request is rejected. The tenant is
// never a code constant.
func TenantAuth(cfg config.AuthConfig, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractBearer(c.Request.Header.Get("Authorization"))
		if tokenStr == "" {
			if cfg.DevTenantID > 0 {
				c.Set(string(constants.ContextKeyTenantID), cfg.DevTenantID)
				c.Next()
				return
			}
			dto.SendAbort(c, apperrors.ErrUnauthorized("missing bearer token"))
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.Warn(c.Request.Context(), "rejected bearer token", logger.Error(err))
			dto.SendAbort(c, apperrors.ErrUnauthorized("invalid bearer token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			dto.SendAbort(c, apperrors.ErrUnauthorized("malformed token claims"))
			return
		}

		tenantID, ok := tenantFromClaims(claims)
		if !ok {
			log.Warn(c.Request.Context(), "token is missing a usable tenant_id claim")
			dto.SendAbort(c, apperrors.ErrUnauthorized("missing tenant_id claim"))
			return
		}

		c.Set(string(constants.ContextKeyTenantID), tenantID)
		if sub, ok := claims[constants.ClaimKeySubject].(string); ok {
			c.Set(string(constants.ContextKeyUserID), sub)
		}
		c.Next()
	}
}

// tenantFromClaims accepts both numeric and string tenant_id claims;
// JSON numbers arrive as float64.
func tenantFromClaims(claims jwt.MapClaims) (int64, bool) {
	switch v := claims[constants.ClaimKeyTenantID].(type) {
	case float64:
		if v <= 0 {
			return 0, false
		}
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

// TenantID reads the resolved tenant from the request context.
func TenantID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(string(constants.ContextKeyTenantID))
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
