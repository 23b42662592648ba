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

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Payment   PaymentConfig
	Email     EmailConfig
	Kafka     KafkaConfig
	S3        S3Config
	Store     StoreConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	PublicURL   string // used to absolutize image paths in receipts
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PageTTL  time.Duration
}

// Enabled reports whether a Redis host was configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

type PaymentConfig struct {
	Stripe StripeConfig
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

type EmailConfig struct {
	AppName     string
	SenderEmail string
	ResendKey   string
	SMTP        SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

type KafkaConfig struct {
	Brokers       []string
	OrderTopic    string
	ConsumerGroup string
}

// Enabled reports whether at least one broker was configured.
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// StoreConfig holds storefront constants.
type StoreConfig struct {
	PageSize            int
	LatestProductsLimit int
	FeaturedLimit       int
	PaymentMethods      []string
	DefaultPayment      string
	SessionCookie       string
}

type SchedulerConfig struct {
	RatingSchedule    string
	CartPurgeSchedule string
	StaleCartAge      time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			PublicURL:   getEnv("SERVER_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "prostore"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "720h"), 720*time.Hour),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "1440h"), 1440*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
			PageTTL:  parseDuration(getEnv("REDIS_PAGE_TTL", "1h"), time.Hour),
		},
		Payment: PaymentConfig{
			Stripe: StripeConfig{
				SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
				WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
				Currency:      getEnv("STRIPE_CURRENCY", "usd"),
			},
		},
		Email: EmailConfig{
			AppName:     getEnv("APP_NAME", "Prostore"),
			SenderEmail: getEnv("SENDER_EMAIL", "onboarding@resend.dev"),
			ResendKey:   getEnv("RESEND_API_KEY", ""),
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnv("SMTP_PORT", "587"),
				Username: getEnv("SMTP_USERNAME", ""),
				Password: getEnv("SMTP_PASSWORD", ""),
			},
		},
		Kafka: KafkaConfig{
			Brokers:       parseSlice(getEnv("KAFKA_BROKERS", "")),
			OrderTopic:    getEnv("KAFKA_ORDER_TOPIC", "orders.paid"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "prostore-notifier"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "prostore-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Store: StoreConfig{
			PageSize:            parseInt(getEnv("PAGE_SIZE", "12"), 12),
			LatestProductsLimit: parseInt(getEnv("LATEST_PRODUCTS_LIMIT", "4"), 4),
			FeaturedLimit:       parseInt(getEnv("FEATURED_PRODUCTS_LIMIT", "4"), 4),
			PaymentMethods:      parseSlice(getEnv("PAYMENT_METHODS", "PayPal,Stripe,CashOnDelivery")),
			DefaultPayment:      getEnv("DEFAULT_PAYMENT_METHOD", "PayPal"),
			SessionCookie:       getEnv("SESSION_CART_COOKIE", "sessionCartId"),
		},
		Scheduler: SchedulerConfig{
			RatingSchedule:    getEnv("CRON_RATING_RECONCILE", "30 3 * * *"),
			CartPurgeSchedule: getEnv("CRON_CART_PURGE", "0 4 * * *"),
			StaleCartAge:      parseDuration(getEnv("STALE_CART_AGE", "720h"), 720*time.Hour),
		},
	}

	if config.Server.Environment == "production" && config.JWT.Secret == "your-secret-key" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
