package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/souschef/internal/rag"
)

const sampleRecipe = `Chicken Biryani

Ingredients:
- 2 cups basmati rice
- 500g chicken thighs
- 1 cup yogurt

STEP 1: Marinate the chicken in yogurt and spices for 30 minutes.
STEP 2: Parboil the rice with whole spices.
**STEP 3:** Layer the chicken and rice in a heavy pot.
Step 4: Cook on low heat for 25 minutes.

Cooking Tips:
Let the biryani rest for 10 minutes before opening the pot.
Use aged basmati rice for the best texture.

Total time: 90 minutes`

func TestParseRecipeText(t *testing.T) {
	parsed := ParseRecipeText(sampleRecipe)

	require.Len(t, parsed.Steps, 4)
	assert.Equal(t, "STEP 1: Marinate the chicken in yogurt and spices for 30 minutes.", parsed.Steps[0])
	assert.Equal(t, "STEP 3:** Layer the chicken and rice in a heavy pot.", parsed.Steps[2])
	assert.Contains(t, parsed.Steps[3], "Cook on low heat")

	assert.Contains(t, parsed.Ingredients, "basmati rice")
	assert.Contains(t, parsed.Ingredients, "yogurt")

	assert.Contains(t, parsed.Tips, "rest for 10 minutes")
	assert.Contains(t, parsed.Tips, "aged basmati")
}

func TestParseRecipeTextNoSections(t *testing.T) {
	parsed := ParseRecipeText("Just cook it until done.")
	assert.Empty(t, parsed.Steps)
	assert.Empty(t, parsed.Ingredients)
	assert.Empty(t, parsed.Tips)
}

func TestIsStepLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"STEP 1: Do something", true},
		{"Step 12: Do something", true},
		{"**STEP 3:** Do something", true},
		{"step two: no digit", false},
		{"Ingredients:", false},
		{"- 2 cups rice", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isStepLine(tt.line), "line %q", tt.line)
	}
}

func TestDetailedRecipe(t *testing.T) {
	gen := &stubGenerator{reply: sampleRecipe}
	svc := NewRecipeService(gen, rag.NewRetriever(nil, nil, 5))

	parsed, err := svc.DetailedRecipe(context.Background(), "Chicken Biryani", "User Preferences:\n- Region/Cuisine: Indian")
	require.NoError(t, err)
	assert.Len(t, parsed.Steps, 4)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Chicken Biryani")
	assert.Contains(t, gen.prompts[0], `"STEP X:"`)
	assert.Contains(t, gen.prompts[0], "Region/Cuisine: Indian")
}

func TestDetailedRecipeUsesRetrievedContext(t *testing.T) {
	gen := &stubGenerator{reply: sampleRecipe}
	idx := indexWithPassage(t, "Traditional biryani from the Hyderabad region uses saffron milk.")
	svc := NewRecipeService(gen, rag.NewRetriever(idx, &stubEmbedder{vec: []float32{1, 0, 0}}, 5))

	_, err := svc.DetailedRecipe(context.Background(), "Chicken Biryani", "prefs")
	require.NoError(t, err)

	assert.Contains(t, gen.prompts[0], "Recipe Knowledge Base")
	assert.Contains(t, gen.prompts[0], "saffron milk")
}

func TestDetailedRecipeRejectsStepless(t *testing.T) {
	gen := &stubGenerator{reply: "I cannot find that recipe."}
	svc := NewRecipeService(gen, rag.NewRetriever(nil, nil, 5))

	_, err := svc.DetailedRecipe(context.Background(), "Mystery Dish", "prefs")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestDetailedRecipePropagatesModelErrors(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	svc := NewRecipeService(gen, rag.NewRetriever(nil, nil, 5))

	_, err := svc.DetailedRecipe(context.Background(), "Chicken Biryani", "prefs")
	require.Error(t, err)
}
