package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/platewise/souschef/internal/rag"
)

// ParsedRecipe is a detailed recipe split into the sections the session
// tracks.
type ParsedRecipe struct {
	Ingredients string
	Steps       []string
	Tips        string
}

// RecipeService turns a chosen recipe name into full instructions, grounded
// in the corpus when passages are available.
type RecipeService struct {
	llm       TextGenerator
	retriever *rag.Retriever
}

// NewRecipeService wires the detailed-recipe generator.
func NewRecipeService(llm TextGenerator, retriever *rag.Retriever) *RecipeService {
	return &RecipeService{llm: llm, retriever: retriever}
}

// DetailedRecipe generates and parses the full recipe for recipeName.
func (s *RecipeService) DetailedRecipe(ctx context.Context, recipeName, preferences string) (*ParsedRecipe, error) {
	passages, err := searchCorpus(ctx, s.retriever, recipeName)
	if err != nil {
		log.Printf("[Recipe] %v, continuing without context", err)
		passages = nil
	}

	var prompt string
	if len(passages) > 0 {
		prompt = fmt.Sprintf(detailWithContextTemplate, recipeName, rag.ContextBlock(passages), preferences)
	} else {
		prompt = fmt.Sprintf(detailTemplate, recipeName, preferences)
	}

	text, err := s.llm.Generate(ctx, detailSystem, prompt)
	if err != nil {
		return nil, err
	}

	parsed := ParseRecipeText(text)
	if len(parsed.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps found in generated recipe", ErrGenerationFailed)
	}
	return parsed, nil
}

// ParseRecipeText splits the generated recipe into ingredients, "STEP N:"
// lines and tips. Section headers are matched loosely; unlabelled lines
// belong to whichever section is open.
func ParseRecipeText(text string) *ParsedRecipe {
	var (
		ingredients []string
		steps       []string
		tips        []string
		section     string
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "ingredient") && strings.Contains(line, ":") && !isStepLine(line):
			section = "ingredients"
			continue
		case isStepLine(line):
			section = "steps"
		case strings.Contains(lower, "tip") && strings.Contains(line, ":"):
			section = "tips"
			continue
		}

		switch section {
		case "ingredients":
			ingredients = append(ingredients, line)
		case "steps":
			if isStepLine(line) {
				steps = append(steps, strings.Trim(line, "* "))
			}
		case "tips":
			tips = append(tips, line)
		}
	}

	return &ParsedRecipe{
		Ingredients: strings.Join(ingredients, "\n"),
		Steps:       steps,
		Tips:        strings.Join(tips, "\n"),
	}
}

// isStepLine reports whether line is a "STEP N:" instruction line,
// tolerating markdown emphasis around the marker.
func isStepLine(line string) bool {
	trimmed := strings.TrimLeft(line, "*_ ")
	if len(trimmed) < 4 {
		return false
	}
	return strings.EqualFold(trimmed[:4], "step") && strings.ContainsAny(trimmed, "0123456789")
}
