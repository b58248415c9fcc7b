package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferencesFormat(t *testing.T) {
	prefs := Preferences{
		Region:               "Indian",
		TastePreferences:     []string{"spicy", "tangy"},
		MealType:             "dinner",
		TimeAvailable:        "45 minutes",
		AvailableIngredients: []string{"rice", "chicken"},
	}

	out := prefs.Format()

	assert.Contains(t, out, "- Region/Cuisine: Indian")
	assert.Contains(t, out, "- Taste Preferences: spicy, tangy")
	assert.Contains(t, out, "- Meal Type: dinner")
	assert.Contains(t, out, "- Time Available: 45 minutes")
	// Empty lists render as None, matching the generation prompts.
	assert.Contains(t, out, "- Allergies: None")
	assert.Contains(t, out, "- Dislikes: None")
	assert.Contains(t, out, "- Available Ingredients: rice, chicken")
}

func TestCookingSessionClone(t *testing.T) {
	sess := &CookingSession{
		ID:    "session_abc12345",
		Steps: []string{"STEP 1: chop"},
		History: []StepHistoryEntry{
			{StepNumber: 1, StepText: "STEP 1: chop"},
		},
	}

	clone := sess.Clone()
	clone.Steps[0] = "mutated"
	clone.History[0].StepNumber = 99

	assert.Equal(t, "STEP 1: chop", sess.Steps[0])
	assert.Equal(t, 1, sess.History[0].StepNumber)
}

func TestHasRecipe(t *testing.T) {
	assert.False(t, (&CookingSession{}).HasRecipe())
	assert.True(t, (&CookingSession{RecipeName: "Pad Thai"}).HasRecipe())
}
