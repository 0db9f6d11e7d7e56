package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Redis
	EnableCache bool
	RedisURL    string

	// JWT
	JWTSecret string

	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Upload
	UploadDir     string
	UploadURL     string
	MaxUploadSize int64

	// Storage
	StorageDriver   string
	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Catalog listings
	ListingCacheTTL time.Duration
	ListingLimit    int

	// Background jobs
	SchedulerWorkers int
	SeedDefaults     bool

	EnableMetrics bool
}

func New() *Config {
	c := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "storefront"),
		DBPassword: getEnv("DB_PASSWORD", "storefront"),
		DBName:     getEnv("DB_NAME", "storefront"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		EnableCache: getEnvAsBool("ENABLE_CACHE", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// CORS
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080")),

		// Upload
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		UploadURL:     getEnv("UPLOAD_URL_PREFIX", "/uploads"),
		MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE_MB", 10)) * 1024 * 1024,

		// Storage
		StorageDriver:   strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		S3Region:        getEnv("S3_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", "uploads"),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 0),

		// Catalog listings
		ListingCacheTTL: time.Duration(getEnvAsInt("LISTING_CACHE_TTL_SECONDS", 300)) * time.Second,
		ListingLimit:    getEnvAsInt("LISTING_LIMIT", 100),

		SchedulerWorkers: getEnvAsInt("SCHEDULER_WORKERS", 2),
		SeedDefaults:     getEnvAsBool("SEED_DEFAULTS", true),

		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}

	// Build DSN
	c.DatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)

	return c
}

// Validate reports configuration that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "local":
		if strings.TrimSpace(c.UploadDir) == "" {
			return fmt.Errorf("UPLOAD_DIR is required for local storage")
		}
	case "s3":
		if c.S3Region == "" || c.S3Bucket == "" || c.S3PublicBaseURL == "" {
			return fmt.Errorf("S3_REGION, S3_BUCKET and S3_PUBLIC_BASE_URL are required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER: %s", c.StorageDriver)
	}

	if c.IsProduction() && c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
