package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application. Values come from
// environment variables; secrets may also be provided through *_FILE
// variables pointing at mounted secret files.
type Config struct {
	// Server configuration
	ServerHost  string
	ServerPort  string
	CORSOrigins []string

	// Corpus and index configuration
	CorpusDir string
	IndexPath string

	// Optional Postgres DSN for the pgvector-backed index. Empty means the
	// local SQLite index is used.
	DatabaseURL string

	// Redis configuration. Empty RedisHost and RedisURL disable the Redis
	// session store and rate limiting.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Text-generation model
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string

	// Embeddings model
	EmbeddingsAPIKey string
	EmbeddingsAPIURL string
	EmbeddingsModel  string
	EmbeddingDim     int

	// Image-generation model. Empty ImageAPIKey means the capability probe
	// selects the text-only visual guide.
	ImageAPIKey string
	ImageAPIURL string

	// S3 upload of generated step images. Empty bucket disables uploads.
	S3Bucket  string
	AWSRegion string

	// Deadline applied to every external model call.
	ModelTimeout time.Duration
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),

		CorpusDir: getEnv("CORPUS_DIR", "corpus"),
		IndexPath: getEnv("INDEX_PATH", "data/corpus_index.db"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		LLMAPIKey: readKey("DEEPSEEK_API_KEY"),
		LLMAPIURL: getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		LLMModel:  getEnv("LLM_MODEL", "deepseek-chat"),

		EmbeddingsAPIKey: readKey("EMBEDDINGS_API_KEY"),
		EmbeddingsAPIURL: getEnv("EMBEDDINGS_API_URL", "https://api.openai.com/v1"),
		EmbeddingsModel:  getEnv("EMBEDDINGS_MODEL", "text-embedding-3-small"),

		ImageAPIKey: readKey("OPENAI_API_KEY"),
		ImageAPIURL: getEnv("OPENAI_IMAGES_API_URL", "https://api.openai.com/v1/images/generations"),

		S3Bucket:  os.Getenv("S3_BUCKET_NAME"),
		AWSRegion: os.Getenv("AWS_REGION"),
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	cfg.EmbeddingDim = 1536
	if dim := os.Getenv("EMBEDDING_DIM"); dim != "" {
		n, err := strconv.Atoi(dim)
		if err != nil {
			return nil, fmt.Errorf("invalid EMBEDDING_DIM %q: %w", dim, err)
		}
		cfg.EmbeddingDim = n
	}

	timeoutSecs := 60
	if t := os.Getenv("MODEL_TIMEOUT_SECONDS"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("invalid MODEL_TIMEOUT_SECONDS %q: %w", t, err)
		}
		timeoutSecs = n
	}
	cfg.ModelTimeout = time.Duration(timeoutSecs) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the invariants Load cannot express through defaults.
func (c *Config) Validate() error {
	var problems []string

	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("SERVER_PORT %q is not a number", c.ServerPort))
	}
	if c.EmbeddingDim <= 0 {
		problems = append(problems, "EMBEDDING_DIM must be positive")
	}
	if c.ModelTimeout <= 0 {
		problems = append(problems, "MODEL_TIMEOUT_SECONDS must be positive")
	}
	if IsProduction() && c.LLMAPIKey == "" {
		problems = append(problems, "DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE is required in production")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// RedisEnabled reports whether a Redis endpoint was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != "" || c.RedisURL != ""
}

// S3Enabled reports whether generated images should be uploaded to S3.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// readKey reads a secret from NAME or, failing that, from the file named by
// NAME_FILE. Missing keys return empty; the consumer decides whether that
// is fatal.
func readKey(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if path := os.Getenv(name + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}

// splitList parses a comma-separated env value into trimmed entries.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
