package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultDatabaseDSN = "host=localhost user=postgres password=postgres dbname=distribution port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"

	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	ServiceName string
	HTTPPort    string
	Env         string
	LogLevel    string

	// Snapshot slot
	StorageDriver     string
	StoragePath       string
	StateKey          string
	DatabaseDSN       string
	DBMaxIdleConns    int
	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisDB           int

	JWTSecret     string
	JWTExpiration time.Duration
	CORSOrigins   string

	RoutingURL     string
	RoutingTimeout time.Duration

	SeedFile string

	// Proactive alerts
	AlertInterval     time.Duration
	LowStockThreshold int
	ExpiryWarningDays int
	PendingOrderDays  int

	MetricsPrefix string
}

// Load reads .env (optional) and the process environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "distribution-backend"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StorageDriver:     getEnv("STORAGE_DRIVER", DriverFile),
		StoragePath:       getEnv("STORAGE_PATH", "./data/state.json"),
		StateKey:          getEnv("STATE_KEY", "distribution_state"),
		DatabaseDSN:       getEnv("DATABASE_DSN", defaultDatabaseDSN),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),

		RoutingURL:     getEnv("ROUTING_URL", "https://router.project-osrm.org"),
		RoutingTimeout: getEnvAsDuration("ROUTING_TIMEOUT", 30*time.Second),

		SeedFile: getEnv("SEED_FILE", "./configs/seed.yaml"),

		AlertInterval:     getEnvAsDuration("ALERT_INTERVAL", 15*time.Minute),
		LowStockThreshold: getEnvAsInt("LOW_STOCK_THRESHOLD", 20),
		ExpiryWarningDays: getEnvAsInt("EXPIRY_WARNING_DAYS", 15),
		PendingOrderDays:  getEnvAsInt("PENDING_ORDER_DAYS", 3),

		MetricsPrefix: getEnv("METRICS_PREFIX", "distribution"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	switch c.StorageDriver {
	case DriverFile, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.LowStockThreshold < 0 || c.ExpiryWarningDays < 0 || c.PendingOrderDays < 0 {
		return errors.New("alert thresholds must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Warnings lists defaults that should not reach production.
func (c *Config) Warnings() []string {
	var out []string
	if c.StorageDriver == DriverPostgres && c.DatabaseDSN == defaultDatabaseDSN {
		out = append(out, "DATABASE_DSN uses the default value, set your own Postgres connection for production")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		out = append(out, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}
	if c.StorageDriver == DriverMemory {
		out = append(out, "STORAGE_DRIVER=memory keeps state only for the life of the process")
	}
	return out
}

// LogFields returns the non-secret settings for the startup log line.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Env),
		zap.String("http_port", c.HTTPPort),
		zap.String("storage_driver", c.StorageDriver),
		zap.String("state_key", c.StateKey),
		zap.Duration("alert_interval", c.AlertInterval),
		zap.Int("low_stock_threshold", c.LowStockThreshold),
		zap.Int("expiry_warning_days", c.ExpiryWarningDays),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return def
}
