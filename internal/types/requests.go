package types

import "time"

// SubmitPreferencesResponse is returned from POST /preferences.
type SubmitPreferencesResponse struct {
	SessionID       string            `json:"session_id"`
	Recommendations string            `json:"recommendations"`
	Candidates      []RecipeCandidate `json:"candidates,omitempty"`
	Message         string            `json:"message,omitempty"`
}

// SelectRecipeRequest is the body for POST /sessions/:id/recipe.
type SelectRecipeRequest struct {
	RecipeName string `json:"recipe_name" binding:"required"`
}

// SelectRecipeResponse is returned once a recipe has been generated and
// loaded into the session.
type SelectRecipeResponse struct {
	RecipeName  string   `json:"recipe_name"`
	Ingredients string   `json:"ingredients"`
	Steps       []string `json:"steps"`
	Tips        string   `json:"tips"`
}

// NextStepResponse is returned from POST /sessions/:id/steps/next. Step is
// null once every step has been delivered.
type NextStepResponse struct {
	Step       *string `json:"step"`
	StepNumber int     `json:"step_number"`
	TotalSteps int     `json:"total_steps"`
	Completed  bool    `json:"completed"`
	Tips       string  `json:"tips,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// SkipStepsResponse is returned from POST /sessions/:id/steps/skip.
type SkipStepsResponse struct {
	Tips    string `json:"tips"`
	Message string `json:"message,omitempty"`
}

// AlternativesRequest is the body for POST /sessions/:id/alternatives.
type AlternativesRequest struct {
	MissingIngredient string `json:"missing_ingredient" binding:"required"`
	RecipeContext     string `json:"recipe_context"`
}

// AlternativesResponse carries the ranked substitutes text.
type AlternativesResponse struct {
	Alternatives string `json:"alternatives"`
}

// SessionSummary is the read-only view returned from GET /sessions/:id.
type SessionSummary struct {
	SessionID     string    `json:"session_id"`
	CurrentRecipe string    `json:"current_recipe,omitempty"`
	CurrentStep   int       `json:"current_step"`
	TotalSteps    int       `json:"total_steps"`
	HasRecipe     bool      `json:"has_recipe"`
	CreatedAt     time.Time `json:"created_at"`
}

// SessionHistoryResponse is returned from GET /sessions/:id/history.
type SessionHistoryResponse struct {
	SessionID           string             `json:"session_id"`
	History             []StepHistoryEntry `json:"history"`
	TotalCompletedSteps int                `json:"total_completed_steps"`
}
