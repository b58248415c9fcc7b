package rag

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
)

// Indexer builds the corpus index once at startup (or via cmd/indexer).
type Indexer struct {
	embedder Embedder
	chunker  *Chunker
}

// NewIndexer returns an indexer using the given embedder and chunking
// parameters.
func NewIndexer(embedder Embedder, chunkSize, chunkOverlap int) *Indexer {
	return &Indexer{
		embedder: embedder,
		chunker:  NewChunker(chunkSize, chunkOverlap),
	}
}

// BuildOrLoad returns a ready index. An already-populated index is loaded
// as-is with no re-embedding. Otherwise every document in corpusDir is
// extracted, chunked and embedded. An empty or missing corpus yields an
// empty index, not an error: callers run in preference-only mode.
func (ix *Indexer) BuildOrLoad(ctx context.Context, corpusDir, indexPath string) (VectorIndex, error) {
	idx, err := OpenSQLiteIndex(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	if idx.Len() > 0 {
		log.Printf("[Indexer] Loaded existing index from %s (%d chunks)", indexPath, idx.Len())
		return idx, nil
	}
	return ix.Build(ctx, corpusDir, idx)
}

// Build populates idx from corpusDir. Documents that fail extraction are
// skipped with a log line rather than failing the whole build.
func (ix *Indexer) Build(ctx context.Context, corpusDir string, idx VectorIndex) (VectorIndex, error) {
	files, err := CorpusFiles(corpusDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("[Indexer] No documents in %s; retrieval disabled", corpusDir)
		return idx, nil
	}

	if ix.embedder == nil {
		log.Printf("[Indexer] No embedder configured; retrieval disabled")
		return idx, nil
	}

	total := 0
	for _, path := range files {
		text, err := ExtractText(ctx, path)
		if err != nil {
			log.Printf("[Indexer] Skipping %s: %v", path, err)
			continue
		}

		chunks := ix.chunker.Split(filepath.Base(path), text)
		vectors := make([][]float32, 0, len(chunks))
		for _, c := range chunks {
			vec, err := ix.embedder.Embed(ctx, c.Text)
			if err != nil {
				return nil, fmt.Errorf("failed to embed chunk from %s: %w", path, err)
			}
			vectors = append(vectors, vec)
		}

		if err := idx.Add(ctx, chunks, vectors); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", path, err)
		}
		total += len(chunks)
	}

	log.Printf("[Indexer] Indexed %d documents, %d chunks", len(files), total)
	return idx, nil
}
