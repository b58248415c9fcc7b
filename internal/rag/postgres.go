package rag

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// CorpusChunk is the pgvector-backed row for one corpus chunk.
type CorpusChunk struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Source     string    `gorm:"index"`
	ChunkIndex int
	Text       string
	Embedding  pgvector.Vector `gorm:"type:vector(1536)"`
	Distance   float32         `gorm:"->;-:migrate"`
}

func (CorpusChunk) TableName() string { return "corpus_chunks" }

// PostgresIndex keeps the corpus in Postgres and delegates nearest-neighbor
// search to pgvector's <-> operator, so the index can be shared between
// instances and rebuilt out of band.
type PostgresIndex struct {
	db *gorm.DB
}

// OpenPostgresIndex connects to dsn, ensures the vector extension and
// schema exist, and returns the index.
func OpenPostgresIndex(dsn string) (*PostgresIndex, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres index: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to install pgvector extension: %w", err)
	}
	if err := db.AutoMigrate(&CorpusChunk{}); err != nil {
		return nil, fmt.Errorf("failed to migrate corpus schema: %w", err)
	}

	return &PostgresIndex{db: db}, nil
}

func (p *PostgresIndex) Add(ctx context.Context, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}

	rows := make([]CorpusChunk, 0, len(chunks))
	for i, c := range chunks {
		rows = append(rows, CorpusChunk{
			ID:         uuid.New(),
			Source:     c.Source,
			ChunkIndex: c.Index,
			Text:       c.Text,
			Embedding:  pgvector.NewVector(vectors[i]),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := p.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
		return fmt.Errorf("failed to persist chunks: %w", err)
	}
	return nil
}

func (p *PostgresIndex) Search(ctx context.Context, vector []float32, k int) ([]Passage, error) {
	if k <= 0 {
		k = 5
	}

	vec := pgvector.NewVector(vector)
	var rows []CorpusChunk
	err := p.db.WithContext(ctx).
		Select("*, embedding <-> ? AS distance", vec).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		}).
		Limit(k).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	passages := make([]Passage, 0, len(rows))
	for _, r := range rows {
		passages = append(passages, Passage{
			Source: r.Source,
			Text:   r.Text,
			// Map L2 distance into a descending relevance score.
			Score: 1 / (1 + r.Distance),
		})
	}
	return passages, nil
}

// Clear drops every stored chunk, ahead of a full rebuild.
func (p *PostgresIndex) Clear(ctx context.Context) error {
	if err := p.db.WithContext(ctx).Where("1 = 1").Delete(&CorpusChunk{}).Error; err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	return nil
}

func (p *PostgresIndex) Len() int {
	var count int64
	if err := p.db.Model(&CorpusChunk{}).Count(&count).Error; err != nil {
		return 0
	}
	return int(count)
}
