// Package memory provides an in-process fallback for the report cache,
// used when no Redis address is configured.
package memory

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dashiq/reporting/internal/domain/models"
	redisstore "github.com/dashiq/reporting/internal/infrastructure/persistence/redis"
	"github.com/dashiq/reporting/pkg/constants"
	"github.com/dashiq/reporting/pkg/errors"
)

type memoryCache struct {
	store *gocache.Cache
}

// NewCacheManager creates an in-process CacheManager with the local TTL.
func NewCacheManager() redisstore.CacheManager {
	return &memoryCache{
		store: gocache.New(constants.LocalCacheTTL, 2*constants.LocalCacheTTL),
	}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return "", errors.ErrNotFound(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.ErrCacheError("unexpected entry type")
	}
	return s, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return errors.ErrCacheError("marshal failed").WithCause(err)
		}
		s = string(b)
	}

	c.store.Set(key, s, ttl)
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

func (c *memoryCache) GetReport(ctx context.Context, tenantID int64, endpoint string, echo models.FilterEcho, dest interface{}) (bool, error) {
	key := redisstore.ReportCacheKey(tenantID, endpoint, echo)
	val, err := c.Get(ctx, key)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code() == constants.ErrCodeNotFound {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		c.store.Delete(key)
		return false, nil
	}
	return true, nil
}

func (c *memoryCache) SetReport(ctx context.Context, tenantID int64, endpoint string, echo models.FilterEcho, payload interface{}) error {
	return c.Set(ctx, redisstore.ReportCacheKey(tenantID, endpoint, echo), payload, constants.LocalCacheTTL)
}
