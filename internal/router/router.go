package router

import (
	"github.com/gin-gonic/gin"
	"github.com/platewise/souschef/internal/api"
	"github.com/platewise/souschef/internal/middleware"
)

// SetupRouter configures the application routes. rateLimiter is optional;
// without Redis the model-call endpoints run unthrottled.
func SetupRouter(
	sessionHandler *api.SessionHandler,
	healthHandler *api.HealthHandler,
	corsOrigins []string,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS(corsOrigins))

	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if rateLimiter != nil {
		v1.Use(rateLimiter.RateLimitMiddleware())
	}
	sessionHandler.RegisterRoutes(v1)

	return router
}
