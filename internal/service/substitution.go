package service

import (
	"context"
	"fmt"

	"github.com/platewise/souschef/internal/types"
)

// SubstitutionService suggests replacements for missing ingredients.
type SubstitutionService struct {
	llm TextGenerator
}

// NewSubstitutionService creates a SubstitutionService backed by llm.
func NewSubstitutionService(llm TextGenerator) *SubstitutionService {
	return &SubstitutionService{llm: llm}
}

// Alternatives returns ranked substitutes for the missing ingredient in
// the context of the given recipe.
func (s *SubstitutionService) Alternatives(ctx context.Context, missing, recipeContext string) (*types.SubstitutionResult, error) {
	if recipeContext == "" {
		recipeContext = "a general recipe"
	}

	text, err := s.llm.Generate(ctx, alternativeSystem, fmt.Sprintf(alternativeTemplate, missing, recipeContext))
	if err != nil {
		return nil, err
	}

	return &types.SubstitutionResult{
		MissingIngredient: missing,
		Alternatives:      text,
	}, nil
}
