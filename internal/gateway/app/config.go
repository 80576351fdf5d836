package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Mode       string // Required: gateway mode (open, shared-secret, token)
	SigningKey string // Required in token mode: HMAC key for JWTs, min 32 bytes
	Issuer     string // Optional: issuer claim for tokens (default: scangate)

	AccessTTL  time.Duration // Optional: access token lifetime (default: 1h)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./scangate.db)
	Clients      string // Optional: seeded client registry, "id:secret:scopes,..."

	URLAllowList   string        // Optional: comma-separated allowed host patterns
	URLDenyList    string        // Optional: comma-separated denied host patterns
	AllowLocalhost bool          // Optional: permit loopback scan targets (default: false)
	AllowPrivate   bool          // Optional: permit private-network scan targets (default: false)
	DNSTimeout     time.Duration // Optional: target resolution timeout (default: 5s)

	EngineURL     string        // Required: base URL of the scanner backend
	EngineAPIKey  string        // Optional: API key for the scanner backend
	EngineTimeout time.Duration // Optional: backend request timeout (default: 30s)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Mode:       getEnvOrDefault("SCANGATE_MODE", "token"),
		SigningKey: os.Getenv("SCANGATE_SIGNING_KEY"),
		Issuer:     getEnvOrDefault("SCANGATE_ISSUER", "scangate"),

		AccessTTL:  getEnvDurationOrDefault("SCANGATE_ACCESS_TTL", time.Hour),
		RefreshTTL: getEnvDurationOrDefault("SCANGATE_REFRESH_TTL", 24*time.Hour),

		DatabaseFile: getEnvOrDefault("SCANGATE_DATABASE_FILE", "scangate.db"),
		Clients:      os.Getenv("SCANGATE_CLIENTS"),

		URLAllowList:   os.Getenv("SCANGATE_URL_ALLOWLIST"),
		URLDenyList:    os.Getenv("SCANGATE_URL_DENYLIST"),
		AllowLocalhost: getEnvBoolOrDefault("SCANGATE_ALLOW_LOCALHOST", false),
		AllowPrivate:   getEnvBoolOrDefault("SCANGATE_ALLOW_PRIVATE_NETWORKS", false),
		DNSTimeout:     getEnvDurationOrDefault("SCANGATE_DNS_TIMEOUT", 5*time.Second),

		EngineURL:     os.Getenv("SCANGATE_ENGINE_URL"),
		EngineAPIKey:  os.Getenv("SCANGATE_ENGINE_API_KEY"),
		EngineTimeout: getEnvDurationOrDefault("SCANGATE_ENGINE_TIMEOUT", 30*time.Second),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
