package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/pkg/constants"
	"github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

// CacheManager provides the report cache contract. Implementations exist
// for Redis (here) and for in-process memory (persistence/memory), chosen
// at startup by configuration.
type CacheManager interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// GetReport unmarshals a cached report payload into dest. The boolean
	// reports whether the key was present.
	GetReport(ctx context.Context, tenantID int64, endpoint string, echo models.FilterEcho, dest interface{}) (bool, error)

	// SetReport caches a report payload under the tenant/endpoint/filter key.
	SetReport(ctx context.Context, tenantID int64, endpoint string, echo models.FilterEcho, payload interface{}) error
}

// ReportCacheKey builds the cache key for one report payload.
func ReportCacheKey(tenantID int64, endpoint string, echo models.FilterEcho) string {
	return fmt.Sprintf("%s%d:%s:%s-%s-%s",
		constants.CacheKeyPrefixReport, tenantID, endpoint, echo.Year, echo.Month, echo.Week)
}

type cacheManagerImpl struct {
	redis *RedisConnection
	log   logger.Logger
}

// NewCacheManager creates a Redis-backed CacheManager.
func NewCacheManager(redis *RedisConnection, log logger.Logger) CacheManager {
	return &cacheManagerImpl{redis: redis, log: log}
}

func (c *cacheManagerImpl) Get(ctx context.Context, key string) (string, error) {
	val, err := c.redis.GetClient().Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", errors.ErrNotFound(key)
		}
		return "", errors.ErrCacheError("get failed").WithCause(err)
	}
	return val, nil
}

func (c *cacheManagerImpl) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	var dataToStore interface{}
	switch v := value.(type) {
	case string, []byte, int, int32, int64, float32, float64, bool:
		dataToStore = v
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return errors.ErrCacheError("marshal failed").WithCause(err)
		}
		dataToStore = b
	}

	if err := c.redis.GetClient().Set(ctx, key, dataToStore, ttl).Err(); err != nil {
		return errors.ErrCacheError("set failed").WithCause(err)
	}
	return nil
}

func (c *cacheManagerImpl) Delete(ctx context.Context, key string) error {
	if err := c.redis.GetClient().Del(ctx, key).Err(); err != nil {
		return errors.ErrCacheError("delete failed").WithCause(err)
	}
	return nil
}

func (c *cacheManagerImpl) GetReport(ctx context.Context, tenantID int64, endpoint string, echo models.FilterEcho, dest interface{}) (bool, error) {
	key := ReportCacheKey(tenantID, endpoint, echo)
	val, err := c.Get(ctx, key)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code() == constants.ErrCodeNotFound {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.log.Warn(ctx, "Dropping undecodable cache entry", logger.String("key", key))
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

func (c *cacheManagerImpl) SetReport(ctx context.Context, tenantID int64, endpoint string, echo models.FilterEcho, payload interface{}) error {
	return c.Set(ctx, ReportCacheKey(tenantID, endpoint, echo), payload, constants.ReportCacheTTL)
}
