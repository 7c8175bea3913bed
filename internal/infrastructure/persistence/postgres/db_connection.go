// Package postgres provides PostgreSQL access for the reporting service.
// It implements connection pooling, health checks, and the read-only
// aggregation repository over the governance tables.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dashiq/reporting/internal/config"
	"github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

// DBConnection manages the PostgreSQL connection pool lifecycle.
type DBConnection struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

// NewDBConnection opens the connection pool and performs an initial ping.
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	if cfg == nil {
		return nil, errors.ErrInternal("database config is nil")
	}

	log.Info(ctx, "Initializing PostgreSQL connection pool",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
		logger.Int("max_conns", cfg.MaxConns),
	)

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error(ctx, "Failed to open database connection", err)
		return nil, errors.ErrDatabaseConnectionFailed(err.Error()).WithCause(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.ErrDatabaseConnectionFailed(err.Error()).WithCause(err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MinConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxConnLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.MaxConnIdleTime) * time.Minute)

	conn := &DBConnection{
		db:     db,
		sqlDB:  sqlDB,
		config: cfg,
		logger: log,
	}

	if err := conn.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info(ctx, "PostgreSQL connection pool initialized")

	return conn, nil
}

// NewDBConnectionFromGorm wraps an already-open gorm handle. Integration
// tests use this to point the repository at a container database.
func NewDBConnectionFromGorm(db *gorm.DB, log logger.Logger) (*DBConnection, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.ErrDatabaseConnectionFailed(err.Error()).WithCause(err)
	}
	return &DBConnection{
		db:     db,
		sqlDB:  sqlDB,
		config: &config.DatabaseConfig{},
		logger: log,
	}, nil
}

// DB returns the underlying gorm handle for repository implementations.
func (c *DBConnection) DB() *gorm.DB {
	return c.db
}

// Ping verifies database connectivity.
func (c *DBConnection) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := c.sqlDB.PingContext(pingCtx); err != nil {
		c.logger.Error(ctx, "Database ping failed", err)
		return errors.ErrDatabaseConnectionFailed(err.Error()).WithCause(err)
	}

	latency := time.Since(start)
	if latency > 100*time.Millisecond {
		c.logger.Warn(ctx, "High database latency detected",
			logger.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return nil
}

// HealthCheck returns pool statistics alongside a live ping.
func (c *DBConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	if err := c.Ping(ctx); err != nil {
		return nil, err
	}

	stats := c.sqlDB.Stats()
	return map[string]interface{}{
		"status":           "healthy",
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_connections":  c.config.MaxConns,
		"wait_count":       stats.WaitCount,
		"wait_duration_ms": stats.WaitDuration.Milliseconds(),
	}, nil
}

// Close shuts down the connection pool. Called during application shutdown.
func (c *DBConnection) Close() {
	c.logger.Info(context.Background(), "Closing PostgreSQL connection pool")
	if err := c.sqlDB.Close(); err != nil {
		c.logger.Error(context.Background(), "Failed to close connection pool", err)
	}
}
