package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" required:"true"`

	// Authentication
	JWTSecret      string        `env:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" default:"24h"`

	// Redis cache
	RedisAddr      string        `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	UnreadCacheTTL time.Duration `env:"UNREAD_CACHE_TTL" default:"60s"`

	// Push (Firebase Cloud Messaging)
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`

	// Email (SMTP)
	SMTPHost     string `env:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" default:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" default:"no-reply@notifyhub.local"`

	// SMS gateway
	SMSGatewayURL string `env:"SMS_GATEWAY_URL"`
	SMSGatewayKey string `env:"SMS_GATEWAY_KEY"`
	SMSSender     string `env:"SMS_SENDER" default:"notifyhub"`

	// Queue processor
	QueueBatchSize    int           `env:"QUEUE_BATCH_SIZE" default:"50"`
	QueueClaimTimeout time.Duration `env:"QUEUE_CLAIM_TIMEOUT" default:"5m"`
	WorkerInterval    time.Duration `env:"WORKER_INTERVAL" default:"30s"`
	WorkerRateLimit   int           `env:"WORKER_RATE_LIMIT" default:"20"`
	WorkerEnabled     bool          `env:"WORKER_ENABLED" default:"true"`

	// Retention cleanup
	RetentionDays   int           `env:"RETENTION_DAYS" default:"30"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" default:"1h"`

	// Development
	LogLevel  string `env:"LOG_LEVEL" default:"debug"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from project root; real env vars still win when set
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.AccessTokenTTL, "ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisAddr, "REDIS_ADDR", "localhost:6379"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.UnreadCacheTTL, "UNREAD_CACHE_TTL", 60*time.Second); err != nil {
		return nil, err
	}

	// Providers
	if err := loadEnvString(&config.FirebaseCredentialsFile, "FIREBASE_CREDENTIALS_FILE", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPHost, "SMTP_HOST", "localhost"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SMTPPort, "SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPUsername, "SMTP_USERNAME", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPPassword, "SMTP_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPFrom, "SMTP_FROM", "no-reply@notifyhub.local"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMSGatewayURL, "SMS_GATEWAY_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMSGatewayKey, "SMS_GATEWAY_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMSSender, "SMS_SENDER", "notifyhub"); err != nil {
		return nil, err
	}

	// Queue processor
	if err := loadEnvInt(&config.QueueBatchSize, "QUEUE_BATCH_SIZE", 50); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.QueueClaimTimeout, "QUEUE_CLAIM_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.WorkerInterval, "WORKER_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.WorkerRateLimit, "WORKER_RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.WorkerEnabled, "WORKER_ENABLED", true); err != nil {
		return nil, err
	}

	// Retention
	if err := loadEnvInt(&config.RetentionDays, "RETENTION_DAYS", 30); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.CleanupInterval, "CLEANUP_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}

	return config, nil
}

// RetentionHorizon converts the configured retention days into a duration
func (c *Config) RetentionHorizon() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func loadEnvString(target *string, key, defaultValue string) error {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	*target = value
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer value for %s: %q", key, value)
	}
	*target = parsed
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean value for %s: %q", key, value)
	}
	*target = parsed
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration value for %s: %q", key, value)
	}
	*target = parsed
	return nil
}
