package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "corpus", cfg.CorpusDir)
	assert.Equal(t, "deepseek-chat", cfg.LLMModel)
	assert.Equal(t, 1536, cfg.EmbeddingDim)
	assert.Equal(t, 60*time.Second, cfg.ModelTimeout)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.S3Enabled())
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("S3_BUCKET_NAME", "step-images")
	t.Setenv("MODEL_TIMEOUT_SECONDS", "15")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, 15*time.Second, cfg.ModelTimeout)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
}

func TestLoadSecretFile(t *testing.T) {
	clearEnv(t)
	keyFile := filepath.Join(t.TempDir(), "deepseek_key")
	require.NoError(t, os.WriteFile(keyFile, []byte("sk-from-file\n"), 0o600))
	t.Setenv("DEEPSEEK_API_KEY_FILE", keyFile)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", cfg.LLMAPIKey)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "SERVER_PORT", "not-a-port"},
		{"bad redis db", "REDIS_DB", "nope"},
		{"bad embedding dim", "EMBEDDING_DIM", "x"},
		{"bad timeout", "MODEL_TIMEOUT_SECONDS", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateRequiresKeyInProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "test")
	assert.True(t, IsTest())

	t.Setenv("ENV", "production")
	assert.True(t, IsProduction())
}

func TestLoadRetrieval(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadRetrieval(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 1000, cfg.ChunkSize)
		assert.Equal(t, 200, cfg.ChunkOverlap)
		assert.Equal(t, 5, cfg.TopK)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "retrieval.yaml")
		require.NoError(t, os.WriteFile(path, []byte("chunk_size: 500\nchunk_overlap: 50\ntop_k: 3\n"), 0o644))

		cfg, err := LoadRetrieval(path)
		require.NoError(t, err)
		assert.Equal(t, 500, cfg.ChunkSize)
		assert.Equal(t, 50, cfg.ChunkOverlap)
		assert.Equal(t, 3, cfg.TopK)
	})

	t.Run("nonsense values fall back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "retrieval.yaml")
		require.NoError(t, os.WriteFile(path, []byte("chunk_size: 100\nchunk_overlap: 100\ntop_k: -1\n"), 0o644))

		cfg, err := LoadRetrieval(path)
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.ChunkSize)
		assert.Equal(t, 20, cfg.ChunkOverlap)
		assert.Equal(t, 5, cfg.TopK)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "retrieval.yaml")
		require.NoError(t, os.WriteFile(path, []byte("chunk_size: [oops"), 0o644))

		_, err := LoadRetrieval(path)
		assert.Error(t, err)
	})
}

// clearEnv unsets every variable Load reads so tests see a clean slate.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SERVER_HOST", "SERVER_PORT", "CORS_ORIGINS", "CORPUS_DIR", "INDEX_PATH",
		"DATABASE_URL", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_URL",
		"DEEPSEEK_API_KEY", "DEEPSEEK_API_KEY_FILE", "DEEPSEEK_API_URL", "LLM_MODEL",
		"EMBEDDINGS_API_KEY", "EMBEDDINGS_API_KEY_FILE", "EMBEDDINGS_API_URL", "EMBEDDINGS_MODEL", "EMBEDDING_DIM",
		"OPENAI_API_KEY", "OPENAI_API_KEY_FILE", "OPENAI_IMAGES_API_URL",
		"S3_BUCKET_NAME", "AWS_REGION", "MODEL_TIMEOUT_SECONDS", "ENV",
	} {
		t.Setenv(name, "")
	}
}
