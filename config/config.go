package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the application, sourced from the
// environment. A .env file is honored for local development.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	ServerPort     int
	JWTSecret      string

	// Payment gateway credentials. WebhookSecret signs confirmation
	// callbacks; KeyID/KeySecret authenticate order creation.
	PaymentKeyID      string
	PaymentKeySecret  string
	PaymentBaseURL    string
	PaymentWebhookKey string

	// Notification queue. Empty brokers disables publishing.
	KafkaBrokers string
	KafkaTopic   string

	// Cloudflare R2 asset store for crests and banners. Empty AccountID
	// disables uploads.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Bucket          string
	R2PublicBaseURL   string
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}

	kafkaTopic := os.Getenv("KAFKA_NOTIFICATIONS_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "league.notifications"
	}

	return &Config{
		DatabaseURL:    dbURL,
		MigrationsPath: migrationsPath,
		ServerPort:     port,
		JWTSecret:      jwtSecret,

		PaymentKeyID:      os.Getenv("PAYMENT_KEY_ID"),
		PaymentKeySecret:  os.Getenv("PAYMENT_KEY_SECRET"),
		PaymentBaseURL:    os.Getenv("PAYMENT_BASE_URL"),
		PaymentWebhookKey: os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   kafkaTopic,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2Bucket:          os.Getenv("R2_BUCKET"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}, nil
}
