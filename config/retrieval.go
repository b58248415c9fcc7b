package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RetrievalConfig tunes how the cookbook corpus is chunked and queried.
// Loaded from a YAML file so index rebuilds and the API server agree on
// the parameters.
type RetrievalConfig struct {
	// ChunkSize is the approximate chunk length in characters.
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap is how many characters consecutive chunks share, so
	// instructions are not cut mid-sentence at a chunk boundary.
	ChunkOverlap int `yaml:"chunk_overlap"`
	// TopK is the default number of passages retrieved per query.
	TopK int `yaml:"top_k"`
}

// RetrievalConfigPath returns the retrieval tuning file location,
// overridable through RETRIEVAL_CONFIG.
func RetrievalConfigPath() string {
	return getEnv("RETRIEVAL_CONFIG", "config/retrieval.yaml")
}

// LoadRetrieval reads the retrieval tuning file. A missing file returns
// defaults; a malformed file is an error.
func LoadRetrieval(path string) (*RetrievalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultRetrieval(), nil
		}
		return nil, fmt.Errorf("failed to read retrieval config %s: %w", path, err)
	}

	cfg := defaultRetrieval()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse retrieval config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func defaultRetrieval() *RetrievalConfig {
	return &RetrievalConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         5,
	}
}

func (c *RetrievalConfig) applyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = c.ChunkSize / 5
	}
	if c.TopK <= 0 {
		c.TopK = 5
	}
}
