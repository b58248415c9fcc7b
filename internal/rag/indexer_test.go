package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hashEmbedder struct {
	calls int
}

// Embed returns a deterministic vector so tests can assert retrieval
// behavior without a live embeddings API.
func (h *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	h.calls++
	vec := make([]float32, 4)
	for i, r := range text {
		vec[i%4] += float32(r % 13)
	}
	return vec, nil
}

func writeCorpus(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	return dir
}

func TestIndexerBuildOrLoad(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"thai.txt":    "Pad thai is stir-fried rice noodles with tamarind and peanuts.",
		"italian.txt": "Carbonara combines eggs, pecorino and guanciale.",
	})
	indexPath := filepath.Join(t.TempDir(), "index.db")

	embedder := &hashEmbedder{}
	indexer := NewIndexer(embedder, 1000, 200)

	idx, err := indexer.BuildOrLoad(context.Background(), corpus, indexPath)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	firstBuildCalls := embedder.calls

	// A second open loads from disk without re-embedding.
	idx2, err := indexer.BuildOrLoad(context.Background(), corpus, indexPath)
	require.NoError(t, err)
	assert.Equal(t, 2, idx2.Len())
	assert.Equal(t, firstBuildCalls, embedder.calls)
}

func TestIndexerEmptyCorpus(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "index.db")
	indexer := NewIndexer(&hashEmbedder{}, 1000, 200)

	idx, err := indexer.BuildOrLoad(context.Background(), filepath.Join(t.TempDir(), "missing"), indexPath)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestIndexerNoEmbedder(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{"a.txt": "some recipe text"})
	indexPath := filepath.Join(t.TempDir(), "index.db")
	indexer := NewIndexer(nil, 1000, 200)

	idx, err := indexer.BuildOrLoad(context.Background(), corpus, indexPath)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestIndexerSkipsUnreadableDocuments(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"good.txt":   "A perfectly fine recipe document.",
		"broken.pdf": "not actually a pdf",
	})
	indexPath := filepath.Join(t.TempDir(), "index.db")
	indexer := NewIndexer(&hashEmbedder{}, 1000, 200)

	idx, err := indexer.BuildOrLoad(context.Background(), corpus, indexPath)
	require.NoError(t, err)
	// The broken PDF is skipped, the good document is indexed.
	assert.Equal(t, 1, idx.Len())
}

func TestRetrieverEndToEnd(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{})
	for i := 0; i < 3; i++ {
		name := filepath.Join(corpus, fmt.Sprintf("doc%d.txt", i))
		require.NoError(t, os.WriteFile(name, []byte(fmt.Sprintf("recipe document number %d with filler text", i)), 0o644))
	}
	indexPath := filepath.Join(t.TempDir(), "index.db")

	embedder := &hashEmbedder{}
	indexer := NewIndexer(embedder, 1000, 200)
	idx, err := indexer.BuildOrLoad(context.Background(), corpus, indexPath)
	require.NoError(t, err)

	retriever := NewRetriever(idx, embedder, 2)
	passages, err := retriever.Search(context.Background(), "recipe document number 1", 0)
	require.NoError(t, err)
	assert.Len(t, passages, 2)
}

func TestRetrieverDisabledWithoutEmbedder(t *testing.T) {
	retriever := NewRetriever(NewMemoryIndex(), nil, 5)
	passages, err := retriever.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Nil(t, passages)
}

func TestContextBlock(t *testing.T) {
	assert.Equal(t, "", ContextBlock(nil))
	assert.Equal(t, "a\n\nb", ContextBlock([]Passage{{Text: "a"}, {Text: "b"}}))
}
