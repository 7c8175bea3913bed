package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashiq/reporting/internal/config"
	"github.com/dashiq/reporting/pkg/logger"
)

const testSecret = "reporting-test-secret"

func newAuthRouter(cfg config.AuthConfig) (*gin.Engine, *int64) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(TenantAuth(cfg, logger.NewNoopLogger()))

	var seen int64
	engine.GET("/probe", func(c *gin.Context) {
		id, ok := TenantID(c)
		if ok {
			seen = id
		}
		c.Status(http.StatusOK)
	})
	return engine, &seen
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func probe(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestTenantFromNumericClaim(t *testing.T) {
	engine, seen := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"tenant_id": 42,
		"sub":       "user-7",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	w := probe(engine, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), *seen)
}

func TestTenantFromStringClaim(t *testing.T) {
	engine, seen := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"tenant_id": "17",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	w := probe(engine, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(17), *seen)
}

func TestMissingTokenUsesDevTenant(t *testing.T) {
	engine, seen := newAuthRouter(config.AuthConfig{JWTSecret: testSecret, DevTenantID: 1})

	w := probe(engine, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), *seen)
}

func TestMissingTokenRejectedWithoutFallback(t *testing.T) {
	engine, seen := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})

	w := probe(engine, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, *seen)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestWrongSecretRejected(t *testing.T) {
	engine, _ := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})

	token := signToken(t, "other-secret", jwt.MapClaims{
		"tenant_id": 42,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	w := probe(engine, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	engine, _ := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"tenant_id": 42,
		"exp":       time.Now().Add(-time.Hour).Unix(),
	})

	w := probe(engine, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMissingTenantClaimRejected(t *testing.T) {
	engine, _ := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-7",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := probe(engine, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedAuthorizationHeaderFallsBack(t *testing.T) {
	engine, seen := newAuthRouter(config.AuthConfig{JWTSecret: testSecret, DevTenantID: 3})

	w := probe(engine, "Token abc")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), *seen)
}
