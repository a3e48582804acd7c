package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"chunkmark/internal/highlight"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort string
	DBPath  string

	// ChunkUnitSize is the number of characters per chunk. Highlight
	// positions and indexed chunks both use it.
	ChunkUnitSize int
	MarkClass     string
	MarkStyle     string

	LogLevel  slog.Level
	LogFormat string

	QdrantURL        string
	QdrantCollection string
	// QdrantVectorSize is the embedding size. Zero disables indexing and
	// the ask endpoint.
	QdrantVectorSize int
	// LocatorMinScore drops search hits scoring below it. Zero keeps all.
	LocatorMinScore float64

	EmbeddingBaseURL   string
	EmbeddingModelName string
	LLMAPIKey          string

	// RedisURL enables the embedding cache when set.
	RedisURL          string
	EmbeddingCacheTTL time.Duration
}

// LocatorEnabled reports whether question answering is configured.
func (c *Config) LocatorEnabled() bool {
	return c.QdrantVectorSize > 0
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the numeric ones.
// If a .env file exists in the current directory or a parent directory, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		DBPath:             getEnv("DB_PATH", "./data/chunkmark.db"),
		MarkClass:          getEnv("MARK_CLASS", highlight.DefaultClass),
		MarkStyle:          getEnv("MARK_STYLE", highlight.DefaultStyle),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "pages"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
	}

	if cfg.ChunkUnitSize, err = getPositiveInt("CHUNK_UNIT_SIZE", 1000); err != nil {
		return nil, err
	}

	// The vector size must match the output of the embeddings model. If it
	// changes, the Qdrant collection must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr != "" {
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize < 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must not be negative")
		}
		cfg.QdrantVectorSize = vectorSize
	}

	if minScoreStr := getEnv("LOCATOR_MIN_SCORE", ""); minScoreStr != "" {
		minScore, err := strconv.ParseFloat(minScoreStr, 64)
		if err != nil {
			return nil, fmt.Errorf("LOCATOR_MIN_SCORE must be a valid number: %w", err)
		}
		if minScore < 0 {
			return nil, fmt.Errorf("LOCATOR_MIN_SCORE must not be negative")
		}
		cfg.LocatorMinScore = minScore
	}

	if cfg.EmbeddingCacheTTL, err = time.ParseDuration(getEnv("EMBEDDING_CACHE_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("EMBEDDING_CACHE_TTL must be a duration: %w", err)
	}
	if cfg.EmbeddingCacheTTL < 0 {
		return nil, fmt.Errorf("EMBEDDING_CACHE_TTL must not be negative")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getPositiveInt parses a positive integer environment variable.
func getPositiveInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}
