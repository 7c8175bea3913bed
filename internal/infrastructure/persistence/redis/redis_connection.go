// Package redis provides Redis connection management and the report cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dashiq/reporting/internal/config"
	"github.com/dashiq/reporting/pkg/logger"
)

// RedisConnection manages the Redis client lifecycle and health monitoring.
type RedisConnection struct {
	config        *config.RedisConfig
	client        *redis.Client
	logger        logger.Logger
	isInitialized bool
}

// NewRedisConnection creates a new Redis connection manager instance.
func NewRedisConnection(cfg *config.RedisConfig, log logger.Logger) *RedisConnection {
	return &RedisConnection{
		config: cfg,
		logger: log,
	}
}

// Connect establishes the Redis connection and validates connectivity.
func (rc *RedisConnection) Connect() error {
	if rc.isInitialized {
		rc.logger.Warn(context.Background(), "Redis connection already initialized")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         rc.config.Address,
		Password:     rc.config.Password,
		DB:           rc.config.DB,
		PoolSize:     rc.config.PoolSize,
		MinIdleConns: rc.config.MinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		rc.logger.Error(ctx, "Redis ping failed", err, logger.String("addr", rc.config.Address))
		_ = client.Close()
		return fmt.Errorf("redis connection failed: %w", err)
	}

	rc.client = client
	rc.isInitialized = true
	rc.logger.Info(ctx, "Redis connection established",
		logger.String("addr", rc.config.Address),
		logger.Int("pool_size", rc.config.PoolSize),
	)

	return nil
}

// GetClient returns the Redis client, or nil before Connect.
func (rc *RedisConnection) GetClient() *redis.Client {
	if !rc.isInitialized {
		return nil
	}
	return rc.client
}

// Ping checks Redis server connectivity.
func (rc *RedisConnection) Ping(ctx context.Context) error {
	if !rc.isInitialized {
		return fmt.Errorf("redis connection not initialized")
	}

	if err := rc.client.Ping(ctx).Err(); err != nil {
		rc.logger.Error(ctx, "Redis ping failed", err)
		return err
	}

	return nil
}

// HealthCheck returns connectivity and pool statistics.
func (rc *RedisConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	if !rc.isInitialized {
		return nil, fmt.Errorf("redis connection not initialized")
	}

	health := make(map[string]interface{})

	start := time.Now()
	err := rc.client.Ping(ctx).Err()
	latency := time.Since(start)

	health["connected"] = err == nil
	health["latency_ms"] = latency.Milliseconds()

	if err != nil {
		health["error"] = err.Error()
		return health, err
	}

	stats := rc.client.PoolStats()
	health["pool_hits"] = stats.Hits
	health["pool_misses"] = stats.Misses
	health["total_conns"] = stats.TotalConns
	health["idle_conns"] = stats.IdleConns

	return health, nil
}

// Close gracefully closes the Redis connection.
func (rc *RedisConnection) Close() error {
	if !rc.isInitialized {
		return nil
	}

	if err := rc.client.Close(); err != nil {
		rc.logger.Error(context.Background(), "Failed to close Redis connection", err)
		return err
	}

	rc.isInitialized = false
	rc.logger.Info(context.Background(), "Redis connection closed")
	return nil
}
