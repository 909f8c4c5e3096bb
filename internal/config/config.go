// Package config loads the gateway configuration from the environment
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"adhi/internal/storage"
)

// Session store backends
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the gateway configuration
type Config struct {
	Port             string
	AppEnv           string
	LogLevel         string
	LogFormat        string
	LoginDestination string
	AllowedOrigins   []string

	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// DatabaseURL is optional; without it accounts live in memory.
	DatabaseURL string

	// Storage is optional; without an endpoint the document routes are disabled.
	Storage storage.Config

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             GetEnvOrDefault("GATEWAY_PORT", "8080"),
		AppEnv:           GetEnvOrDefault("APP_ENV", "development"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		LogFormat:        os.Getenv("LOG_FORMAT"),
		LoginDestination: GetEnvOrDefault("LOGIN_DESTINATION", "/auth/login"),
		AllowedOrigins:   splitList(GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8081,http://localhost:19006")),

		SessionBackend: strings.ToLower(GetEnvOrDefault("SESSION_BACKEND", BackendRedis)),
		RedisAddr:      GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		Storage: storage.Config{
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			PublicEndpoint: os.Getenv("S3_PUBLIC_ENDPOINT"),
			AccessKey:      os.Getenv("S3_ACCESS_KEY"),
			SecretKey:      os.Getenv("S3_SECRET_KEY"),
			Bucket:         os.Getenv("S3_BUCKET_NAME"),
			Region:         os.Getenv("S3_REGION"),
			UseSSL:         os.Getenv("S3_USE_SSL") == "true",
		},

		ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q (want %s or %s)", c.SessionBackend, BackendRedis, BackendMemory)
	}

	if !strings.HasPrefix(c.LoginDestination, "/") {
		return errors.New("LOGIN_DESTINATION must be an absolute app path")
	}

	if c.StorageEnabled() {
		if err := c.Storage.Validate(); err != nil {
			return fmt.Errorf("invalid storage configuration: %w", err)
		}
	}

	if c.IsProduction() {
		return ValidateEnv([]string{"REDIS_ADDR", "DATABASE_URL"})
	}
	return nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageEnabled reports whether document storage is configured
func (c *Config) StorageEnabled() bool {
	return c.Storage.Endpoint != ""
}

// ValidateEnv validates that all required environment variables are set
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
