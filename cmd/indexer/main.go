package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/platewise/souschef/config"
	"github.com/platewise/souschef/internal/rag"
	"github.com/platewise/souschef/internal/service"
)

// Builds the corpus index ahead of time so the API server starts with a
// warm index instead of embedding the whole corpus on first boot.
func main() {
	corpusDir := flag.String("corpus", "", "corpus directory (defaults to CORPUS_DIR)")
	indexPath := flag.String("index", "", "local index path (defaults to INDEX_PATH)")
	rebuild := flag.Bool("rebuild", false, "discard any existing index and re-embed everything")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *corpusDir != "" {
		cfg.CorpusDir = *corpusDir
	}
	if *indexPath != "" {
		cfg.IndexPath = *indexPath
	}

	retrieval, err := config.LoadRetrieval(config.RetrievalConfigPath())
	if err != nil {
		log.Fatalf("Failed to load retrieval configuration: %v", err)
	}

	embeddings := service.NewEmbeddingService(cfg)
	if !embeddings.Enabled() {
		log.Fatalf("EMBEDDINGS_API_KEY or EMBEDDINGS_API_KEY_FILE must be set to build an index")
	}

	ctx := context.Background()
	indexer := rag.NewIndexer(embeddings, retrieval.ChunkSize, retrieval.ChunkOverlap)

	var idx rag.VectorIndex
	if cfg.DatabaseURL != "" {
		pg, err := rag.OpenPostgresIndex(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open pgvector index: %v", err)
		}
		if *rebuild {
			if err := pg.Clear(ctx); err != nil {
				log.Fatalf("Failed to clear pgvector index: %v", err)
			}
		}
		idx, err = indexer.Build(ctx, cfg.CorpusDir, pg)
		if err != nil {
			log.Fatalf("Failed to build index: %v", err)
		}
	} else {
		if *rebuild {
			if err := rag.RemoveSQLiteIndex(cfg.IndexPath); err != nil {
				log.Fatalf("Failed to remove existing index: %v", err)
			}
		}
		idx, err = indexer.BuildOrLoad(ctx, cfg.CorpusDir, cfg.IndexPath)
		if err != nil {
			log.Fatalf("Failed to build index: %v", err)
		}
	}

	log.Printf("Index ready: %d chunks", idx.Len())
}
