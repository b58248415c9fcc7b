package rag

import (
	"context"
	"fmt"
	"strings"
)

// DefaultTopK is the number of passages retrieved when the caller does not
// say otherwise.
const DefaultTopK = 5

// Retriever answers free-text queries against a built index. Safe for
// concurrent use; the index is read-only after build.
type Retriever struct {
	index    VectorIndex
	embedder Embedder
	topK     int
}

// NewRetriever wraps index and embedder. Either may be nil, in which case
// every search returns no passages.
func NewRetriever(index VectorIndex, embedder Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{index: index, embedder: embedder, topK: topK}
}

// Search returns up to k passages relevant to query, most relevant first.
// k <= 0 uses the configured default. An empty or absent index returns an
// empty slice with no error.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	if r == nil || r.index == nil || r.embedder == nil || r.index.Len() == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = r.topK
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return r.index.Search(ctx, vec, k)
}

// ContextBlock renders passages into the knowledge-base block embedded in
// generation prompts.
func ContextBlock(passages []Passage) string {
	if len(passages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}
