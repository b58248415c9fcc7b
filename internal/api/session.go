package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/platewise/souschef/internal/service"
	"github.com/platewise/souschef/internal/types"
)

// SessionHandler exposes the cooking flow over HTTP.
type SessionHandler struct {
	cooking *service.CookingService
}

// NewSessionHandler creates the handler for the cooking endpoints.
func NewSessionHandler(cooking *service.CookingService) *SessionHandler {
	return &SessionHandler{cooking: cooking}
}

// RegisterRoutes mounts the cooking endpoints on router.
func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/preferences", h.SubmitPreferences)

	sessions := router.Group("/sessions/:id")
	{
		sessions.GET("", h.GetSession)
		sessions.DELETE("", h.DeleteSession)
		sessions.GET("/history", h.GetHistory)
		sessions.POST("/recipe", h.SelectRecipe)
		sessions.POST("/steps/next", h.NextStep)
		sessions.POST("/steps/skip", h.SkipSteps)
		sessions.POST("/steps/image", h.StepImage)
		sessions.POST("/alternatives", h.Alternatives)
	}
}

// SubmitPreferences starts a new session and returns ranked recipe
// recommendations for the submitted preferences.
func (h *SessionHandler) SubmitPreferences(c *gin.Context) {
	var prefs types.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sessionID, rec, err := h.cooking.SubmitPreferences(c.Request.Context(), prefs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SubmitPreferencesResponse{
		SessionID:       sessionID,
		Recommendations: rec.Text,
		Candidates:      rec.Candidates,
		Message:         "Choose a recipe to start cooking",
	})
}

// SelectRecipe generates the full recipe and loads it into the session.
func (h *SessionHandler) SelectRecipe(c *gin.Context) {
	var req types.SelectRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	parsed, err := h.cooking.SelectRecipe(c.Request.Context(), c.Param("id"), req.RecipeName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SelectRecipeResponse{
		RecipeName:  req.RecipeName,
		Ingredients: parsed.Ingredients,
		Steps:       parsed.Steps,
		Tips:        parsed.Tips,
	})
}

// NextStep delivers the next cooking step.
func (h *SessionHandler) NextStep(c *gin.Context) {
	resp, err := h.cooking.NextStep(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SkipSteps skips the remaining steps and returns the tips.
func (h *SessionHandler) SkipSteps(c *gin.Context) {
	tips, err := h.cooking.SkipSteps(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SkipStepsResponse{
		Tips:    tips,
		Message: "Skipped to the end of the recipe",
	})
}

// StepImage returns the visual guide for the current step.
func (h *SessionHandler) StepImage(c *gin.Context) {
	result, err := h.cooking.StepImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Alternatives suggests substitutes for a missing ingredient.
func (h *SessionHandler) Alternatives(c *gin.Context) {
	var req types.AlternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.cooking.Alternatives(c.Request.Context(), c.Param("id"), req.MissingIngredient, req.RecipeContext)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AlternativesResponse{
		Alternatives: result.Alternatives,
	})
}

// GetSession returns the session summary.
func (h *SessionHandler) GetSession(c *gin.Context) {
	summary, err := h.cooking.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetHistory returns every step delivered so far in the session.
func (h *SessionHandler) GetHistory(c *gin.Context) {
	history, err := h.cooking.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SessionHistoryResponse{
		SessionID:           c.Param("id"),
		History:             history,
		TotalCompletedSteps: len(history),
	})
}

// DeleteSession ends the session.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.cooking.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}
