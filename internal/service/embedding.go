package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/platewise/souschef/config"
)

// EmbeddingService is an OpenAI-compatible embeddings client. It implements
// rag.Embedder for both index builds and retrieval queries.
type EmbeddingService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewEmbeddingService creates the embeddings client. A missing API key is
// not an error here; the caller decides whether retrieval is required.
func NewEmbeddingService(cfg *config.Config) *EmbeddingService {
	return &EmbeddingService{
		apiKey:  cfg.EmbeddingsAPIKey,
		baseURL: cfg.EmbeddingsAPIURL,
		model:   cfg.EmbeddingsModel,
		client:  &http.Client{Timeout: cfg.ModelTimeout},
	}
}

// Enabled reports whether the client has credentials to embed anything.
func (s *EmbeddingService) Enabled() bool { return s.apiKey != "" }

// Embed returns the embedding vector for text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("embeddings API key not configured")
	}

	reqBody := struct {
		Input string `json:"input"`
		Model string `json:"model"`
	}{Input: text, Model: s.model}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embeddings request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return result.Data[0].Embedding, nil
}

// warm-up check used by main to fail fast on bad credentials without
// blocking startup on a missing key.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := s.Embed(ctx, "ping")
	return err
}
