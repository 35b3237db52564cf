package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Ollama embedding (write path only; the engine never computes embeddings)
	OllamaHost     string
	EmbeddingModel string

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Rehydration defaults
	MaxContextLength int
	HistoryLimit     int

	// Cache behavior
	CacheTTL      time.Duration
	SweepInterval time.Duration
	MaxCacheSize  int
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "memory"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "sessions"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		EmbeddingModel: getEnv("REHYDRA_EMBEDDING_MODEL", "all-minilm:l6-v2"),

		LogFile:  getEnv("REHYDRA_LOG_FILE", "/tmp/rehydra.log"),
		LogLevel: parseLogLevel(getEnv("REHYDRA_LOG_LEVEL", "INFO")),

		MaxContextLength: getEnvInt("REHYDRA_MAX_CONTEXT_LENGTH", 10000),
		HistoryLimit:     getEnvInt("REHYDRA_HISTORY_LIMIT", 20),

		CacheTTL:      getEnvDuration("REHYDRA_CACHE_TTL", time.Hour),
		SweepInterval: getEnvDuration("REHYDRA_SWEEP_INTERVAL", 10*time.Minute),
		MaxCacheSize:  getEnvInt("REHYDRA_MAX_CACHE_SIZE", 1000),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
