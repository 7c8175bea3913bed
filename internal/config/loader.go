package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/dashiq/reporting/pkg/constants"
	"github.com/dashiq/reporting/pkg/errors"
)

// LoadConfig loads the configuration from file and environment variables.
//
// The legacy flat variables PORT, DB_HOST, DB_PORT, DB_NAME, DB_USER and
// DB_PASSWORD are honored for compatibility with existing deployments,
// alongside the REPORTING_ prefixed form of every key.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", constants.DefaultServicePort)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.pprof_enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "promptgate")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", 60)
	v.SetDefault("database.max_conn_idle_time", 10)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.dev_tenant_id", 1)
	v.SetDefault("prompt_filter.base_url", "http://localhost:8001")
	v.SetDefault("prompt_filter.timeout", 5)
	v.SetDefault("prompt_filter.retries", constants.PromptCheckRetries)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "governance-audit")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000", "http://localhost:3001"})
	v.SetDefault("cors.max_age", 300)
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.per_minute", constants.DefaultRateLimitPerMinute)
	v.SetDefault("rate_limit.burst", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", "reporting")
	v.SetDefault("tracing.sampling_rate", 1.0)

	// Load from config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/reporting/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Load from environment variables
	v.SetEnvPrefix("REPORTING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy flat variables take precedence over defaults but not over
	// explicit REPORTING_ variables, matching viper's bind order.
	_ = v.BindEnv("server.port", "REPORTING_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.host", "REPORTING_DATABASE_HOST", "DB_HOST")
	_ = v.BindEnv("database.port", "REPORTING_DATABASE_PORT", "DB_PORT")
	_ = v.BindEnv("database.database", "REPORTING_DATABASE_DATABASE", "DB_NAME")
	_ = v.BindEnv("database.user", "REPORTING_DATABASE_USER", "DB_USER")
	_ = v.BindEnv("database.password", "REPORTING_DATABASE_PASSWORD", "DB_PASSWORD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrInternal("failed to unmarshal config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
