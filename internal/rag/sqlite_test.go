package rag

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteIndexPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index.db")

	idx, err := OpenSQLiteIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())

	err = idx.Add(context.Background(), []Chunk{
		{Source: "thai.pdf", Index: 0, Text: "pad thai"},
		{Source: "thai.pdf", Index: 1, Text: "green curry"},
	}, [][]float32{
		{1, 0},
		{0, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	// Reopen: chunks and embeddings come back from disk.
	reopened, err := OpenSQLiteIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	passages, err := reopened.Search(context.Background(), []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "pad thai", passages[0].Text)
}

func TestRemoveSQLiteIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := OpenSQLiteIndex(path)
	require.NoError(t, err)
	require.NoError(t, idx.Add(context.Background(), []Chunk{{Source: "a", Text: "x"}}, [][]float32{{1}}))

	require.NoError(t, RemoveSQLiteIndex(path))

	fresh, err := OpenSQLiteIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Len())

	// Removing a missing file is fine.
	assert.NoError(t, RemoveSQLiteIndex(filepath.Join(t.TempDir(), "absent.db")))
}
