package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Notification record backends
const (
	StoreMemory   = "memory"
	StoreDatabase = "database"
	StoreRedis    = "redis"
)

const devJWTSecret = "showwise-dev-secret"

// Config holds all configuration for the application
type Config struct {
	Port        string
	Release     bool
	LogLevel    string
	DatabaseURL string

	EventLocation     *time.Location
	DayOfHour         int
	NotifyFireTimeout time.Duration
	NotificationStore string

	RedisAddr     string
	RedisPassword string

	DiscordWebhookURL string
	RocketChat        RocketChatConfig
	Mail              MailConfig

	JWTSecret      string
	JWTExpiry      time.Duration
	AllowedOrigins []string
}

// RocketChatConfig holds the REST credentials of the Rocket.Chat bot user
type RocketChatConfig struct {
	URL       string
	UserID    string
	AuthToken string
	Channel   string
}

// MailConfig selects and configures the e-mail provider
type MailConfig struct {
	Provider       string
	FromAddress    string
	FromName       string
	SendGridAPIKey string
	AWSRegion      string
	AWSAccessKeyID string
	AWSSecretKey   string
}

// Load loads configuration from environment variables.
// Outside release mode a .env file is read first if present.
func Load() (*Config, error) {
	release := os.Getenv("GIN_MODE") == "release"
	if !release {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Release:           release,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		NotificationStore: strings.ToLower(getEnv("NOTIFICATION_STORE", StoreMemory)),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		DiscordWebhookURL: strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_URL")),
		RocketChat: RocketChatConfig{
			URL:       strings.TrimRight(strings.TrimSpace(os.Getenv("ROCKETCHAT_URL")), "/"),
			UserID:    os.Getenv("ROCKETCHAT_USER_ID"),
			AuthToken: os.Getenv("ROCKETCHAT_TOKEN"),
			Channel:   getEnv("ROCKETCHAT_CHANNEL", "#crew"),
		},
		Mail: MailConfig{
			Provider:       strings.ToLower(getEnv("EMAIL_PROVIDER", "noop")),
			FromAddress:    getEnv("MAIL_FROM_ADDRESS", "noreply@showwise.local"),
			FromName:       getEnv("MAIL_FROM_NAME", "ShowWise"),
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
			AWSAccessKeyID: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	dsn, err := databaseURL(release)
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn

	if cfg.JWTSecret == "" {
		if release {
			return nil, fmt.Errorf("required environment variable JWT_SECRET is not set")
		}
		log.Printf("Warning: JWT_SECRET not set, using an insecure development secret")
		cfg.JWTSecret = devJWTSecret
	}

	loc, err := time.LoadLocation(getEnv("EVENT_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_TIMEZONE: %w", err)
	}
	cfg.EventLocation = loc

	hour, err := strconv.Atoi(getEnv("DAY_OF_HOUR", "8"))
	if err != nil || hour < 0 || hour > 23 {
		return nil, fmt.Errorf("invalid DAY_OF_HOUR %q: must be an hour between 0 and 23", os.Getenv("DAY_OF_HOUR"))
	}
	cfg.DayOfHour = hour

	if cfg.NotifyFireTimeout, err = time.ParseDuration(getEnv("NOTIFY_FIRE_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_FIRE_TIMEOUT format: %w", err)
	}
	if cfg.JWTExpiry, err = time.ParseDuration(getEnv("JWT_EXPIRY", "24h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY format: %w", err)
	}

	switch cfg.NotificationStore {
	case StoreMemory, StoreDatabase, StoreRedis:
	default:
		return nil, fmt.Errorf("invalid NOTIFICATION_STORE %q: use memory, database or redis", cfg.NotificationStore)
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

// databaseURL uses DATABASE_URL in release mode and the individual DB_* parameters otherwise
func databaseURL(release bool) (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}
	if release {
		return "", fmt.Errorf("required environment variable DATABASE_URL is not set")
	}

	host := getEnv("DB_HOST", "localhost")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "showwise")
	port := getEnv("DB_PORT", "5432")
	sslMode := getEnv("DB_SSL_MODE", "disable")

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC connect_timeout=10",
		host, user, password, dbname, port, sslMode), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
