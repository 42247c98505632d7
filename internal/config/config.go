package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Mail     MailConfig
	Events   EventsConfig
	Catalog  CatalogConfig
	Order    OrderConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	URL             string // overrides the discrete settings below when set
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	AutoMigrate     bool
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// MailConfig holds the transactional email settings. An empty APIKey
// disables notifications.
type MailConfig struct {
	APIKey     string
	From       string
	AdminEmail string
	Workers    int
	QueueSize  int
}

// EventsConfig holds the order event broker settings. An empty URL disables
// event publishing.
type EventsConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// CatalogConfig holds catalogue seeding configuration.
type CatalogConfig struct {
	SeedEnabled bool
	SeedFile    string
	S3Enabled   bool
	S3Bucket    string
	S3Region    string
	S3Prefix    string // Path prefix within bucket (e.g., "catalog/")
}

// OrderConfig holds order placement rules.
type OrderConfig struct {
	// VerifyTotal rejects orders whose total_amount differs from the sum of
	// their items. When false a mismatch is only logged.
	VerifyTotal bool
}

// Load loads configuration from environment variables, reading a .env file
// first when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("PORT", getEnvAsInt("SERVER_PORT", 3001)),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "skinker"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 2),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Mail: MailConfig{
			APIKey:     getEnv("RESEND_API_KEY", ""),
			From:       getEnv("MAIL_FROM", "Skinker Shop <onboarding@resend.dev>"),
			AdminEmail: getEnv("ADMIN_EMAIL", ""),
			Workers:    getEnvAsInt("MAIL_WORKERS", 2),
			QueueSize:  getEnvAsInt("MAIL_QUEUE_SIZE", 100),
		},
		Events: EventsConfig{
			URL:        getEnv("AMQP_URL", ""),
			Exchange:   getEnv("AMQP_EXCHANGE", "orders"),
			RoutingKey: getEnv("AMQP_ROUTING_KEY", "order.created"),
		},
		Catalog: CatalogConfig{
			SeedEnabled: getEnvAsBool("CATALOG_SEED_ENABLED", false),
			SeedFile:    getEnv("CATALOG_SEED_FILE", "data/products.json"),
			S3Enabled:   getEnvAsBool("CATALOG_S3_ENABLED", false),
			S3Bucket:    getEnv("CATALOG_S3_BUCKET", ""),
			S3Region:    getEnv("CATALOG_S3_REGION", "us-east-1"),
			S3Prefix:    getEnv("CATALOG_S3_PREFIX", "catalog/"),
		},
		Order: OrderConfig{
			VerifyTotal: getEnvAsBool("ORDER_VERIFY_TOTAL", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.URL == "" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}

		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}

		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}

		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Mail.Enabled() {
		if c.Mail.From == "" {
			return fmt.Errorf("mail sender is required when RESEND_API_KEY is set")
		}
		if c.Mail.AdminEmail == "" {
			return fmt.Errorf("admin email is required when RESEND_API_KEY is set")
		}
	}

	if c.Mail.Workers < 1 {
		return fmt.Errorf("mail workers must be at least 1")
	}

	if c.Mail.QueueSize < 1 {
		return fmt.Errorf("mail queue size must be at least 1")
	}

	if c.Events.Enabled() && c.Events.Exchange == "" {
		return fmt.Errorf("AMQP exchange is required when AMQP_URL is set")
	}

	if c.Catalog.S3Enabled {
		if c.Catalog.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when catalog S3 is enabled")
		}
		if c.Catalog.S3Region == "" {
			return fmt.Errorf("S3 region is required when catalog S3 is enabled")
		}
	}

	return nil
}

// Enabled reports whether email notifications are configured.
func (c *MailConfig) Enabled() bool {
	return c.APIKey != ""
}

// Enabled reports whether order events are published.
func (c *EventsConfig) Enabled() bool {
	return c.URL != ""
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// ConnLifetime returns the maximum connection lifetime.
func (c *DatabaseConfig) ConnLifetime() time.Duration {
	return time.Duration(c.MaxConnLifetime) * time.Second
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma separated environment variable or returns a default value.
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
