package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DatabaseURL          string
	Environment          string
	AuthTokenSecret      string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SessionRedisAddr     string
	SessionRedisDB       int
	SessionRedisPassword string
	SeedAdminUsername    string
	SeedAdminPassword    string
	RunMigrations        bool
	RunSeed              bool
	MigrationsDir        string
	MaxBodyBytes         int64
	LoginRatePerMinute   int
	ExportMaxRecords     int
	MetricsEnabled       bool
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		Environment:          getEnv("APP_ENV", "development"),
		AuthTokenSecret:      getEnv("AUTH_TOKEN_SECRET", ""),
		SessionTTL:           getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 24*time.Hour),
		SessionRedisAddr:     getEnv("SESSION_REDIS_ADDR", ""),
		SessionRedisDB:       getEnvInt("SESSION_REDIS_DB", 0),
		SessionRedisPassword: getEnv("SESSION_REDIS_PASSWORD", ""),
		SeedAdminUsername:    getEnv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword:    getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:              getEnvBool("RUN_SEED", true),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		LoginRatePerMinute:   getEnvInt("LOGIN_RATE_PER_MINUTE", 15),
		ExportMaxRecords:     getEnvInt("EXPORT_MAX_RECORDS", 500),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.AuthTokenSecret) == "" {
			return fmt.Errorf("AUTH_TOKEN_SECRET must be set in production; unverified identity assertions are only allowed in development")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
		if c.SessionRedisAddr == "" {
			return fmt.Errorf("SESSION_REDIS_ADDR must be set in production; in-memory sessions do not survive restarts")
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.LoginRatePerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive")
	}
	if c.ExportMaxRecords <= 0 {
		return fmt.Errorf("EXPORT_MAX_RECORDS must be positive")
	}
	return nil
}
