package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Audit   AuditConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bidflow"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SessionConfig struct {
	TTL      time.Duration `env:"SESSION_TTL,      default=24h"`
	Capacity int           `env:"SESSION_CAPACITY, default=10000"`
	// SuperAdminIdentifiers bypass the permission directory entirely.
	SuperAdminIdentifiers []string `env:"SUPERADMIN_IDENTIFIERS, default=admin@bidflow.com,admin.master"`
	LoginRateLimit        int      `env:"LOGIN_RATE_LIMIT,       default=10"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment reports whether pretty logging and relaxed headers apply.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context, logger zerolog.Logger) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		return nil, err
	}
	return &cfg, nil
}

// OperatorConfig is the subset of settings bidflowctl needs. Unlike Config
// it does not require JWT_SECRET, so offline commands run without one.
type OperatorConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"SESSION_TTL, default=24h"`
	Mongo     MongoConfig
}

// LoadOperator reads OperatorConfig from environment variables.
func LoadOperator(ctx context.Context) (*OperatorConfig, error) {
	var cfg OperatorConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
