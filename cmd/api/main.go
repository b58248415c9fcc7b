package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/platewise/souschef/config"
	"github.com/platewise/souschef/internal/api"
	"github.com/platewise/souschef/internal/middleware"
	"github.com/platewise/souschef/internal/rag"
	"github.com/platewise/souschef/internal/router"
	"github.com/platewise/souschef/internal/server"
	"github.com/platewise/souschef/internal/service"
	"github.com/platewise/souschef/internal/store"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	retrieval, err := config.LoadRetrieval(config.RetrievalConfigPath())
	if err != nil {
		log.Fatalf("Failed to load retrieval configuration: %v", err)
	}

	ctx := context.Background()

	// Embeddings are optional; without them the service runs in
	// preference-only mode.
	var embedder rag.Embedder
	embeddings := service.NewEmbeddingService(cfg)
	if embeddings.Enabled() {
		if err := embeddings.Ping(ctx); err != nil {
			log.Printf("Embeddings API unreachable, continuing without retrieval: %v", err)
		} else {
			embedder = embeddings
		}
	} else {
		log.Printf("No embeddings API key configured; retrieval disabled")
	}

	index := openIndex(ctx, cfg, retrieval, embedder)
	retriever := rag.NewRetriever(index, embedder, retrieval.TopK)

	llm, err := service.NewLLMService(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}

	var s3cfg *config.S3Config
	if cfg.S3Enabled() {
		s3cfg, err = config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Printf("Failed to configure S3, images stay inline: %v", err)
			s3cfg = nil
		}
	}

	images := service.NewImageGenerator(cfg, llm, s3cfg)

	// Session store and rate limiting: Redis when configured, in-process
	// otherwise.
	var sessions service.SessionRepository = store.NewMemorySessionStore()
	var rateLimiter *middleware.RateLimiter
	if cfg.RedisEnabled() {
		redisClient, err := store.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		sessions = store.NewRedisSessionStore(redisClient)
		rateLimiter = middleware.NewGenerationRateLimiter(redisClient)
	}

	cooking := service.NewCookingService(
		sessions,
		service.NewRecommendationService(llm, retriever, service.NewNumberedListParser()),
		service.NewRecipeService(llm, retriever),
		images,
		service.NewSubstitutionService(llm),
	)

	engine := router.SetupRouter(
		api.NewSessionHandler(cooking),
		api.NewHealthHandler(index),
		cfg.CORSOrigins,
		rateLimiter,
	)

	srv := server.NewServer(engine)
	if err := srv.Start(cfg.ServerHost, cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

// openIndex builds or loads the corpus index. Index trouble never stops
// startup; the service degrades to preference-only generation.
func openIndex(ctx context.Context, cfg *config.Config, retrieval *config.RetrievalConfig, embedder rag.Embedder) rag.VectorIndex {
	indexer := rag.NewIndexer(embedder, retrieval.ChunkSize, retrieval.ChunkOverlap)

	if cfg.DatabaseURL != "" {
		idx, err := rag.OpenPostgresIndex(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Failed to open pgvector index, falling back to local index: %v", err)
		} else {
			if idx.Len() > 0 {
				log.Printf("Loaded pgvector index (%d chunks)", idx.Len())
				return idx
			}
			built, err := indexer.Build(ctx, cfg.CorpusDir, idx)
			if err != nil {
				log.Printf("Failed to build pgvector index, falling back to local index: %v", err)
			} else {
				return built
			}
		}
	}

	idx, err := indexer.BuildOrLoad(ctx, cfg.CorpusDir, cfg.IndexPath)
	if err != nil {
		log.Printf("Failed to build corpus index, continuing without retrieval: %v", err)
		return rag.NewMemoryIndex()
	}
	return idx
}
