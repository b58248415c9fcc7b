package rag

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPgvector launches a disposable pgvector Postgres and returns its
// DSN. Skips when docker is unavailable.
func startPgvector(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	const (
		user     = "postgres"
		password = "postpass"
		dbname   = "souschef_test"
	)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       dbname,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						user, password, host, port.Port(), dbname)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port.Port(), user, password, dbname)
}

func TestPostgresIndex(t *testing.T) {
	dsn := startPgvector(t)

	idx, err := OpenPostgresIndex(dsn)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())

	ctx := context.Background()
	vec := func(fill float32) []float32 {
		v := make([]float32, 1536)
		v[0] = fill
		v[1] = 1 - fill
		return v
	}

	err = idx.Add(ctx, []Chunk{
		{Source: "thai.pdf", Index: 0, Text: "pad thai with tamarind"},
		{Source: "thai.pdf", Index: 1, Text: "green curry with coconut milk"},
	}, [][]float32{vec(1), vec(0)})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	t.Run("nearest neighbor first", func(t *testing.T) {
		passages, err := idx.Search(ctx, vec(0.9), 1)
		require.NoError(t, err)
		require.Len(t, passages, 1)
		assert.Equal(t, "pad thai with tamarind", passages[0].Text)
		assert.Greater(t, passages[0].Score, float32(0))
	})

	t.Run("descending relevance", func(t *testing.T) {
		passages, err := idx.Search(ctx, vec(1), 2)
		require.NoError(t, err)
		require.Len(t, passages, 2)
		assert.GreaterOrEqual(t, passages[0].Score, passages[1].Score)
	})

	t.Run("clear resets the index", func(t *testing.T) {
		require.NoError(t, idx.Clear(ctx))
		assert.Equal(t, 0, idx.Len())
	})
}
