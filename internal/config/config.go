// Package config loads handler configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// State store backends.
const (
	StateBackendDynamoDB = "dynamodb"
	StateBackendRedis    = "redis"
	StateBackendPostgres = "postgres"
)

// DefaultAuthorizerHeaderValue is the User-Agent sent by the Q Business plugin runtime.
const DefaultAuthorizerHeaderValue = "Apache-HttpClient (Java/17.0.15)"

// Config holds every setting read from the environment.
type Config struct {
	Region      string
	LogLevel    slog.Level
	HandlerName string

	DataSourceRoleARN string
	PluginRoleARN     string
	CertificateBucket string
	APIGatewayURL     string

	StateBackend  string
	StateTable    string
	StateTTL      time.Duration
	RedisURL      string
	DatabaseURL   string
	StateSealKey  string
	HTTPTimeout   time.Duration
	AllowedOrigin string

	AuthorizerHeaderName      string
	AuthorizerHeaderValue     string
	AuthorizerHeaderValueHash string
	AuthorizerJWTSecret       string

	LocalPort int
}

// Load reads the environment, loading QCONNECT_ENV_FILE (default .env)
// first when it exists. Variables already set in the environment win.
func Load() (*Config, error) {
	envFile := getEnv("QCONNECT_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{
		Region:      getEnv("AWS_REGION", getEnv("AWS_DEFAULT_REGION", "us-east-1")),
		LogLevel:    parseLevel(getEnv("LOG_LEVEL", "info")),
		HandlerName: getEnv("HANDLER_NAME", ""),

		DataSourceRoleARN: getEnv("DATA_SOURCE_ROLE_ARN", ""),
		PluginRoleARN:     getEnv("PLUGIN_SERVICE_ROLE_ARN", ""),
		CertificateBucket: getEnv("CERTIFICATE_BUCKET_NAME", ""),
		APIGatewayURL:     withTrailingSlash(getEnv("API_GATEWAY_URL", "")),

		StateBackend:  strings.ToLower(getEnv("STATE_BACKEND", StateBackendDynamoDB)),
		StateTable:    getEnv("STATE_TABLE_NAME", ""),
		StateTTL:      getEnvDuration("STATE_TTL", time.Hour),
		RedisURL:      getEnv("REDIS_URL", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		StateSealKey:  getEnv("STATE_ENCRYPTION_KEY", ""),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		AllowedOrigin: getEnv("CORS_ALLOWED_ORIGINS", ""),

		AuthorizerHeaderName:      getEnv("AUTHORIZER_HEADER_NAME", "User-Agent"),
		AuthorizerHeaderValue:     getEnv("AUTHORIZER_HEADER_VALUE", DefaultAuthorizerHeaderValue),
		AuthorizerHeaderValueHash: getEnv("AUTHORIZER_HEADER_VALUE_HASH", ""),
		AuthorizerJWTSecret:       getEnv("AUTHORIZER_JWT_SECRET", ""),

		LocalPort: getEnvInt("LOCAL_HTTP_PORT", 8080),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	switch c.StateBackend {
	case StateBackendDynamoDB:
		// The table is only needed by the Zendesk OAuth routes; checked when built.
	case StateBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STATE_BACKEND=%s", c.StateBackend)
		}
	case StateBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STATE_BACKEND=%s", c.StateBackend)
		}
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q (use: dynamodb, redis, or postgres)", c.StateBackend)
	}
	if c.StateTTL <= 0 {
		return fmt.Errorf("STATE_TTL must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// BearerTokens reports whether the authorizer verifies bearer tokens.
func (c *Config) BearerTokens() bool {
	return c.AuthorizerJWTSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func withTrailingSlash(url string) string {
	if url == "" || strings.HasSuffix(url, "/") {
		return url
	}
	return url + "/"
}
