package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the GraphQL endpoint used when API_URL is not set
const DefaultAPIURL = "http://localhost:4000/graphql"

// Config holds all configuration for the application
type Config struct {
	// GraphQL API Configuration
	API APIConfig

	// HTTP front-end Configuration
	Server ServerConfig

	// Redis Configuration
	Redis RedisConfig

	// Cache Configuration
	Cache CacheConfig

	// Token storage Configuration (CLI)
	TokenStore TokenStoreConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the upstream GraphQL API configuration
type APIConfig struct {
	URL     string
	Timeout time.Duration
}

// ServerConfig holds HTTP front-end configuration
type ServerConfig struct {
	ListenAddr   string
	CORSOrigins  []string
	CookieSecure bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port), empty = in-memory cache and no background tasks
}

// Enabled reports whether a Redis address was configured
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// CacheConfig holds query cache configuration
type CacheConfig struct {
	TTL          time.Duration
	WarmSchedule string // Cron expression, empty = no warming
}

// TokenStoreConfig selects the durable medium for the CLI bearer token
type TokenStoreConfig struct {
	Backend string // keyring, sqlite, memory
	DBPath  string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
	File   string // optional rotated log file
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return &Config{
		API: APIConfig{
			URL:     getEnv("API_URL", DefaultAPIURL),
			Timeout: getDuration("API_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
			CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
			CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		},
		Redis: RedisConfig{
			Address: os.Getenv("REDIS_ADDRESS"),
		},
		Cache: CacheConfig{
			TTL:          getDuration("CACHE_TTL", 10*time.Minute),
			WarmSchedule: os.Getenv("CACHE_WARM_SCHEDULE"),
		},
		TokenStore: TokenStoreConfig{
			Backend: getEnv("TOKEN_STORE", "keyring"),
			DBPath:  getEnv("TOKEN_DB_PATH", "folio.sqlite"),
		},
		// Logging configuration - defaults suitable for production
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   os.Getenv("LOG_FILE"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
