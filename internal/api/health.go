package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/platewise/souschef/internal/rag"
)

// HealthHandler reports service liveness and corpus index status.
type HealthHandler struct {
	index rag.VectorIndex
}

// NewHealthHandler creates the health endpoint handler.
func NewHealthHandler(index rag.VectorIndex) *HealthHandler {
	return &HealthHandler{index: index}
}

// Health returns the service status. The index chunk count lets operators
// distinguish a live service with an empty corpus from a fully indexed
// one.
func (h *HealthHandler) Health(c *gin.Context) {
	chunks := 0
	if h.index != nil {
		chunks = h.index.Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"index_chunks": chunks,
	})
}
