package types

import (
	"fmt"
	"strings"
	"time"
)

// Preferences captures everything the user told us about what they want to
// cook. Immutable once submitted; the session keeps the copy it was created
// with.
type Preferences struct {
	Region               string   `json:"region" binding:"required"`
	TastePreferences     []string `json:"taste_preferences"`
	MealType             string   `json:"meal_type"`
	TimeAvailable        string   `json:"time_available"`
	Allergies            []string `json:"allergies"`
	Dislikes             []string `json:"dislikes"`
	AvailableIngredients []string `json:"available_ingredients"`
}

// Format renders the preferences as the block of text embedded in every
// generation prompt.
func (p Preferences) Format() string {
	return fmt.Sprintf(`User Preferences:
- Region/Cuisine: %s
- Taste Preferences: %s
- Meal Type: %s
- Time Available: %s
- Allergies: %s
- Dislikes: %s
- Available Ingredients: %s`,
		p.Region,
		joinOrNone(p.TastePreferences),
		p.MealType,
		p.TimeAvailable,
		joinOrNone(p.Allergies),
		joinOrNone(p.Dislikes),
		joinOrNone(p.AvailableIngredients),
	)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

// StepHistoryEntry records one delivered cooking step.
type StepHistoryEntry struct {
	StepNumber     int       `json:"step_number"`
	StepText       string    `json:"step_text"`
	Timestamp      time.Time `json:"timestamp"`
	ImageGenerated bool      `json:"image_generated"`
	ImagePrompt    string    `json:"image_prompt,omitempty"`
}

// CookingSession is the server-held state for one cooking flow. The session
// store owns all instances; mutation happens only through the store's Update.
//
// Invariant: 0 <= CurrentStepIndex <= len(Steps). The index marks the next
// step to be delivered, so index == len(Steps) means every step has been
// handed out (or the user skipped ahead).
type CookingSession struct {
	ID               string             `json:"session_id"`
	Preferences      Preferences        `json:"preferences"`
	RecipeName       string             `json:"recipe_name,omitempty"`
	Ingredients      string             `json:"ingredients,omitempty"`
	Steps            []string           `json:"steps,omitempty"`
	CurrentStepIndex int                `json:"current_step_index"`
	Tips             string             `json:"tips,omitempty"`
	History          []StepHistoryEntry `json:"history,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// HasRecipe reports whether a recipe has been selected for this session.
func (s *CookingSession) HasRecipe() bool {
	return s.RecipeName != ""
}

// Clone returns a deep copy so callers can read session state without
// holding the store's lock.
func (s *CookingSession) Clone() *CookingSession {
	out := *s
	out.Steps = append([]string(nil), s.Steps...)
	out.History = append([]StepHistoryEntry(nil), s.History...)
	out.Preferences.TastePreferences = append([]string(nil), s.Preferences.TastePreferences...)
	out.Preferences.Allergies = append([]string(nil), s.Preferences.Allergies...)
	out.Preferences.Dislikes = append([]string(nil), s.Preferences.Dislikes...)
	out.Preferences.AvailableIngredients = append([]string(nil), s.Preferences.AvailableIngredients...)
	return &out
}

// RecipeCandidate is one best-effort parsed recommendation. The raw
// recommendation text remains the source of truth; candidates may number
// fewer than three when the model strays from the requested format.
type RecipeCandidate struct {
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`
}

// GenerationMode tags how a step visual was produced.
type GenerationMode string

const (
	// ModeGPU means an image was synthesized by the accelerated backend.
	ModeGPU GenerationMode = "gpu"
	// ModeTextOnly means the visual guide is a textual description. This is
	// a fully supported mode, not a failure.
	ModeTextOnly GenerationMode = "text_only"
)

// StepImageResult is the visual guide for the most recently delivered step.
// Not stored on the session.
type StepImageResult struct {
	ImageBase64 string         `json:"image_data,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Description string         `json:"description"`
	Mode        GenerationMode `json:"generation_mode"`
}

// SubstitutionResult holds ranked alternatives for a missing ingredient.
type SubstitutionResult struct {
	MissingIngredient string `json:"missing_ingredient"`
	RecipeContext     string `json:"recipe_context"`
	Alternatives      string `json:"alternatives"`
}
