package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB       DatabaseConfig
	Redis    RedisConfig
	Paystack PaystackConfig
	PayGate  PayGateConfig
	Mailer   MailerConfig
	Worker   WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
// ConnectAttempts bounds the startup retry loop; the pool limits apply for
// the life of the process.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	ConnectAttempts int
	MaxOpenConns    int
	MaxIdleConns    int
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// PaystackConfig contains credentials for the Paystack gateway.
type PaystackConfig struct {
	BaseURL   string
	SecretKey string
}

// PayGateConfig contains credentials for the PayGate gateway. ReturnURL is
// where the customer lands after paying; NotifyURL is our webhook endpoint.
type PayGateConfig struct {
	BaseURL   string
	PayGateID string
	Secret    string
	ReturnURL string
	NotifyURL string
}

// MailerConfig contains the transactional email gateway settings.
type MailerConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CampaignInterval      time.Duration
	NotificationInterval  time.Duration
	StatusCheckInterval   time.Duration
	StatusCheckStaleAfter time.Duration
	CatalogCacheTTL       time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:            getEnv("DB_HOST", ""),
		Port:            getEnv("DB_PORT", "5432"),
		User:            getEnv("DB_USER", ""),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", ""),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		ConnectAttempts: getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Payment gateways
	cfg.Paystack = PaystackConfig{
		BaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		SecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
	}
	cfg.PayGate = PayGateConfig{
		BaseURL:   getEnv("PAYGATE_BASE_URL", "https://secure.paygate.co.za/payweb3"),
		PayGateID: getEnv("PAYGATE_ID", ""),
		Secret:    getEnv("PAYGATE_SECRET", ""),
		ReturnURL: getEnv("PAYGATE_RETURN_URL", "https://spazahub.co.za/payment/return"),
		NotifyURL: getEnv("PAYGATE_NOTIFY_URL", "https://api.spazahub.co.za/webhook/paygate"),
	}

	// Mailer
	cfg.Mailer = MailerConfig{
		BaseURL: getEnv("MAILER_BASE_URL", "https://api.resend.com"),
		APIKey:  getEnv("MAILER_API_KEY", ""),
		From:    getEnv("MAILER_FROM", "orders@spazahub.co.za"),
	}

	// Workers (durations)
	var err error
	if cfg.Worker.CampaignInterval, err = parseDurationEnv("CAMPAIGN_APPLY_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CAMPAIGN_APPLY_INTERVAL: %w", err)
	}
	if cfg.Worker.NotificationInterval, err = parseDurationEnv("NOTIFICATION_INTERVAL", "30s"); err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_INTERVAL: %w", err)
	}
	if cfg.Worker.StatusCheckInterval, err = parseDurationEnv("STATUS_CHECK_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid STATUS_CHECK_INTERVAL: %w", err)
	}
	if cfg.Worker.StatusCheckStaleAfter, err = parseDurationEnv("STATUS_CHECK_STALE_AFTER", "10m"); err != nil {
		return nil, fmt.Errorf("invalid STATUS_CHECK_STALE_AFTER: %w", err)
	}
	if cfg.Worker.CatalogCacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", "2m"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
