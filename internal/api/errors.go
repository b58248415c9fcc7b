package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/platewise/souschef/internal/service"
)

// respondError maps service errors onto HTTP status codes. Unknown errors
// become 500s with a generic body so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found, please start a new session"})
	case errors.Is(err, service.ErrNoRecipeSelected):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No recipe selected yet, please choose a recipe first"})
	case errors.Is(err, service.ErrNoStepDelivered):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No step delivered yet, request the next step first"})
	case errors.Is(err, service.ErrGenerationTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "The model took too long to respond, please try again"})
	case errors.Is(err, service.ErrRecommendationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate recommendations, please try again"})
	case errors.Is(err, service.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate a response, please try again"})
	default:
		log.Printf("[API] Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
