// Package rag builds and queries the vector index over the private
// cookbook corpus. The index is read-only after build and safe for
// concurrent readers.
package rag

import "context"

// Chunk is one overlapping slice of a corpus document, sized so cooking
// instructions are not split mid-sentence.
type Chunk struct {
	Source string
	Index  int
	Text   string
}

// Passage is a retrieved chunk with its relevance score, best first.
// Ephemeral, per-request.
type Passage struct {
	Source string  `json:"source_document"`
	Text   string  `json:"text_chunk"`
	Score  float32 `json:"relevance_score"`
}

// Embedder converts free text into a vector. Remote implementations treat
// the call as a single-attempt blocking request bounded by ctx.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores chunk vectors and answers nearest-neighbor queries.
// An empty index answers every query with no results and no error.
type VectorIndex interface {
	Add(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, k int) ([]Passage, error)
	Len() int
}
