// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	External ExternalConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	BaseURL     string

	// Store identity used on invoices and outgoing email
	StoreName    string
	StoreAddress string
	StorePhone   string
	StoreEmail   string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret               string
	AccessTokenExpiry    time.Duration
	RefreshTokenExpiry   time.Duration
	RefreshTokenRotation bool
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Payment  PaymentConfig
	Shipping ShippingConfig
	Regions  RegionsConfig
	Email    EmailConfig
}

// PaymentConfig contains payment gateway configuration
type PaymentConfig struct {
	BaseURL      string
	APIKey       string
	PrivateKey   string
	MerchantCode string
	ReturnURL    string
	Expiry       time.Duration
}

// ShippingConfig contains shipping rates provider configuration
type ShippingConfig struct {
	RatesURL string
	APIKey   string
}

// RegionsConfig contains region lookup provider configuration
type RegionsConfig struct {
	BaseURL string
}

// EmailConfig contains SMTP email configuration
type EmailConfig struct {
	FromEmail string
	FromName  string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "Storefront API"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			Debug:        getEnvAsBool("APP_DEBUG", true),
			BaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),
			StoreName:    getEnv("STORE_NAME", "Storefront"),
			StoreAddress: getEnv("STORE_ADDRESS", ""),
			StorePhone:   getEnv("STORE_PHONE", ""),
			StoreEmail:   getEnv("STORE_EMAIL", "hello@example.com"),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront_db"),
			User:         getEnv("DB_USER", "storefront_user"),
			Password:     getEnv("DB_PASSWORD", "storefront_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret:               getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
			AccessTokenExpiry:    getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
			RefreshTokenExpiry:   getEnvAsDuration("JWT_REFRESH_EXPIRE", 7*24*time.Hour),
			RefreshTokenRotation: getEnvAsBool("JWT_REFRESH_ROTATION", true),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
		},
		External: ExternalConfig{
			Payment: PaymentConfig{
				BaseURL:      getEnv("PAYMENT_BASE_URL", "https://tripay.co.id/api-sandbox"),
				APIKey:       getEnv("PAYMENT_API_KEY", ""),
				PrivateKey:   getEnv("PAYMENT_PRIVATE_KEY", ""),
				MerchantCode: getEnv("PAYMENT_MERCHANT_CODE", ""),
				ReturnURL:    getEnv("PAYMENT_RETURN_URL", "http://localhost:3000/orders"),
				Expiry:       getEnvAsDuration("PAYMENT_EXPIRY", 24*time.Hour),
			},
			Shipping: ShippingConfig{
				RatesURL: getEnv("SHIPPING_RATES_URL", "https://api.biteship.com/v1/rates/couriers"),
				APIKey:   getEnv("SHIPPING_API_KEY", ""),
			},
			Regions: RegionsConfig{
				BaseURL: getEnv("REGIONS_BASE_URL", "https://wilayah.id/api"),
			},
			Email: EmailConfig{
				FromEmail: getEnv("FROM_EMAIL", "noreply@example.com"),
				FromName:  getEnv("FROM_NAME", "Storefront"),
				SMTPHost:  getEnv("SMTP_HOST", ""),
				SMTPPort:  getEnvAsInt("SMTP_PORT", 587),
				SMTPUser:  getEnv("SMTP_USER", ""),
				SMTPPass:  getEnv("SMTP_PASS", ""),
			},
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.IsProduction() && c.External.Payment.PrivateKey == "" {
		return fmt.Errorf("PAYMENT_PRIVATE_KEY is required in production")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
