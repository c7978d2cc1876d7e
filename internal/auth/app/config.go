package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/kidstime/kidstime/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: kidstime-auth)

	// Secret pairs for the two actor namespaces. All four are required and
	// must be distinct enough that tokens never cross namespaces.
	AdminAccessSecret   string
	AdminRefreshSecret  string
	ClientAccessSecret  string
	ClientRefreshSecret string

	AccessTokenTTL  time.Duration // Optional (default: 15m)
	RefreshTokenTTL time.Duration // Optional (default: 30 days)

	DatabaseFile string // Optional: path to SQLite database file (default: ./kidstime.db)
	RedisAddr    string // Optional: denylist redis address (default: localhost:6379)

	// SMTP relay for verification mail. When SMTPHost is empty the service
	// logs codes instead of sending them.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	VerificationCodeTTL time.Duration // Optional (default: 10m)

	// Initial admin seeded into an empty database at startup.
	AdminName     string
	AdminPassword string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Ledger sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer: getEnvOrDefault("AUTH_ISSUER", "kidstime-auth"),

		AdminAccessSecret:   os.Getenv("JWT_ADMIN_ACCESS_SECRET"),
		AdminRefreshSecret:  os.Getenv("JWT_ADMIN_REFRESH_SECRET"),
		ClientAccessSecret:  os.Getenv("JWT_CLIENT_ACCESS_SECRET"),
		ClientRefreshSecret: os.Getenv("JWT_CLIENT_REFRESH_SECRET"),

		AccessTokenTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "kidstime.db"),
		RedisAddr:    getEnvOrDefault("REDIS_ADDR", "localhost:6379"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "noreply@kidstime.app"),

		VerificationCodeTTL: getEnvDurationOrDefault("VERIFICATION_CODE_TTL", 10*time.Minute),

		AdminName:     os.Getenv("ADMIN_NAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

// Validate rejects configurations the service cannot start with.
func (cfg Config) Validate() error {
	if cfg.AdminAccessSecret == "" || cfg.AdminRefreshSecret == "" ||
		cfg.ClientAccessSecret == "" || cfg.ClientRefreshSecret == "" {
		return errors.New("all four JWT_*_SECRET values must be set")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
