package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// chunkRow is the persisted form of a chunk. Embeddings are JSON-encoded;
// similarity search runs against the in-memory copy, SQLite only gives the
// index a durable home between restarts.
type chunkRow struct {
	ID         uint   `gorm:"primaryKey"`
	Source     string `gorm:"index"`
	ChunkIndex int
	Text       string
	Embedding  string
}

func (chunkRow) TableName() string { return "corpus_chunks" }

// SQLiteIndex is the default persisted index: a SQLite file holding every
// chunk and its embedding, mirrored into a MemoryIndex for search.
type SQLiteIndex struct {
	db  *gorm.DB
	mem *MemoryIndex
}

// OpenSQLiteIndex opens (or creates) the index file at path and loads all
// persisted chunks into memory.
func OpenSQLiteIndex(path string) (*SQLiteIndex, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create index dir %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", path, err)
	}
	if err := db.AutoMigrate(&chunkRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate index schema: %w", err)
	}

	idx := &SQLiteIndex{db: db, mem: NewMemoryIndex()}
	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (s *SQLiteIndex) load() error {
	var rows []chunkRow
	if err := s.db.Order("source, chunk_index").Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load index rows: %w", err)
	}

	chunks := make([]Chunk, 0, len(rows))
	vectors := make([][]float32, 0, len(rows))
	for _, r := range rows {
		var vec []float32
		if err := json.Unmarshal([]byte(r.Embedding), &vec); err != nil {
			return fmt.Errorf("corrupt embedding for %s[%d]: %w", r.Source, r.ChunkIndex, err)
		}
		chunks = append(chunks, Chunk{Source: r.Source, Index: r.ChunkIndex, Text: r.Text})
		vectors = append(vectors, vec)
	}
	return s.mem.Add(context.Background(), chunks, vectors)
}

func (s *SQLiteIndex) Add(ctx context.Context, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}

	rows := make([]chunkRow, 0, len(chunks))
	for i, c := range chunks {
		data, err := json.Marshal(vectors[i])
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}
		rows = append(rows, chunkRow{
			Source:     c.Source,
			ChunkIndex: c.Index,
			Text:       c.Text,
			Embedding:  string(data),
		})
	}
	if len(rows) > 0 {
		if err := s.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("failed to persist chunks: %w", err)
		}
	}
	return s.mem.Add(ctx, chunks, vectors)
}

func (s *SQLiteIndex) Search(ctx context.Context, vector []float32, k int) ([]Passage, error) {
	return s.mem.Search(ctx, vector, k)
}

func (s *SQLiteIndex) Len() int { return s.mem.Len() }

// RemoveSQLiteIndex deletes the index file so the next open starts from an
// empty index. A missing file is not an error.
func RemoveSQLiteIndex(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove index %s: %w", path, err)
	}
	return nil
}
