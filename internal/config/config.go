package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// OllamaURL overrides the upstream inference server base URL.
	// Empty means types.DefaultOllamaBaseURL.
	OllamaURL string

	// AccessCodes holds argon2id hashes of the codes clients may present.
	// No codes means no access code is required.
	AccessCodes []string

	// HideUserAPIKey rejects clients that bring their own API key.
	HideUserAPIKey bool

	// JWTSecret enables HS256 bearer tokens when set.
	JWTSecret string

	// UpstreamProxy routes upstream traffic through an http(s) or socks5 proxy.
	UpstreamProxy string

	// EnableMetrics exposes Prometheus metrics at /metrics
	EnableMetrics bool

	// EnableRequestLog stores a row per gateway request in SQLite
	EnableRequestLog bool

	// LogRetentionDays prunes request log rows older than this. 0 keeps everything.
	LogRetentionDays int

	// LogPruneSchedule is a standard cron expression for request log pruning.
	LogPruneSchedule string

	// RateLimit caps requests per minute per client credential. 0 disables it.
	RateLimit int

	// LogLevel is one of debug, info, warn, error
	LogLevel string

	// LogFormat is "text" or "json"
	LogFormat string
}

// Load reads configuration from .env, the config file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	fileConfig, err := LoadFile()
	if err != nil || fileConfig == nil {
		fileConfig = &FileConfig{} // Malformed file, use defaults
	}

	return &Config{
		ServerPort:       getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, ":8080"),
		OllamaURL:        getEnvOrFile("OLLAMA_URL", fileConfig.OllamaURL, ""),
		AccessCodes:      fileConfig.AccessCodes,
		HideUserAPIKey:   getEnvBoolOrFile("HIDE_USER_API_KEY", fileConfig.HideUserAPIKey, false),
		JWTSecret:        getEnvOrFile("JWT_SECRET", fileConfig.JWTSecret, ""),
		UpstreamProxy:    getEnvOrFile("UPSTREAM_PROXY", fileConfig.UpstreamProxy, ""),
		EnableMetrics:    getEnvBoolOrFile("ENABLE_METRICS", fileConfig.EnableMetrics, true),
		EnableRequestLog: getEnvBoolOrFile("ENABLE_REQUEST_LOG", fileConfig.EnableRequestLog, true),
		LogRetentionDays: getEnvIntOrFile("LOG_RETENTION_DAYS", fileConfig.LogRetentionDays, 30),
		LogPruneSchedule: getEnvOrFile("LOG_PRUNE_SCHEDULE", fileConfig.LogPruneSchedule, "0 3 * * *"),
		RateLimit:        getEnvIntOrFile("RATE_LIMIT", fileConfig.RateLimit, 0),
		LogLevel:         getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
		LogFormat:        getEnvOrFile("LOG_FORMAT", fileConfig.LogFormat, "text"),
	}
}

// PlainAccessCodes returns the comma separated codes from ACCESS_CODE.
// They are hashed at startup and appended to AccessCodes.
func PlainAccessCodes() []string {
	var codes []string
	for _, code := range strings.Split(os.Getenv("ACCESS_CODE"), ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order)
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}
