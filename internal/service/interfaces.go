package service

import (
	"context"

	"github.com/platewise/souschef/internal/types"
)

// TextGenerator is the text-generation collaborator: prompt in, text out.
// Implementations attach their own request timeout and surface failures as
// ErrGenerationFailed or ErrGenerationTimeout.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// SessionRepository owns all CookingSession instances. Update must be an
// atomic read-modify-write: the mutator runs against the current state and
// either its changes are published in full or, when it returns an error,
// not at all. Implementations must not let two concurrent updates of the
// same session observe the same starting state.
type SessionRepository interface {
	Create(ctx context.Context, prefs types.Preferences) (*types.CookingSession, error)
	Get(ctx context.Context, id string) (*types.CookingSession, error)
	Update(ctx context.Context, id string, mutate func(*types.CookingSession) error) (*types.CookingSession, error)
	Delete(ctx context.Context, id string) error
}

// CandidateParser extracts recipe names from raw recommendation text.
// Best effort: it may return fewer than three candidates, and callers must
// keep working against the raw text when it does.
type CandidateParser interface {
	Parse(text string) []types.RecipeCandidate
}

// ImageGenerator produces the visual guide for a cooking step. The
// implementation is chosen once at startup by a capability probe; the
// text-only implementation is a fully supported mode and must always return
// a non-empty description.
type ImageGenerator interface {
	GenerateStepImage(ctx context.Context, recipeName, stepText string) (*types.StepImageResult, error)
}
