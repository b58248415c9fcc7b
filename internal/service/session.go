package service

import (
	"context"
	"log"
	"time"

	"github.com/platewise/souschef/internal/types"
)

// CookingService drives the per-session cooking flow: preference
// submission, recipe selection, step progression, visuals and
// substitutions. All session mutation goes through the repository's atomic
// Update; external model calls happen outside the critical section, so a
// failed call never advances the step cursor.
type CookingService struct {
	sessions  SessionRepository
	recommend *RecommendationService
	recipes   *RecipeService
	images    ImageGenerator
	subs      *SubstitutionService
}

// NewCookingService wires the session flow.
func NewCookingService(
	sessions SessionRepository,
	recommend *RecommendationService,
	recipes *RecipeService,
	images ImageGenerator,
	subs *SubstitutionService,
) *CookingService {
	return &CookingService{
		sessions:  sessions,
		recommend: recommend,
		recipes:   recipes,
		images:    images,
		subs:      subs,
	}
}

// SubmitPreferences creates a fresh session for prefs and returns it with
// recipe recommendations. The session outlives a failed recommendation
// only if the failure happened after creation; to keep the contract simple
// we create the session first and tear it down again on failure.
func (s *CookingService) SubmitPreferences(ctx context.Context, prefs types.Preferences) (string, *Recommendation, error) {
	sess, err := s.sessions.Create(ctx, prefs)
	if err != nil {
		return "", nil, err
	}

	rec, err := s.recommend.Recommend(ctx, prefs)
	if err != nil {
		if delErr := s.sessions.Delete(ctx, sess.ID); delErr != nil {
			log.Printf("[Session] Failed to clean up session %s: %v", sess.ID, delErr)
		}
		return "", nil, err
	}

	return sess.ID, rec, nil
}

// SelectRecipe generates the detailed recipe for recipeName and loads it
// into the session, resetting the step cursor and history. Re-selection is
// allowed at any point and intentionally restarts progress.
func (s *CookingService) SelectRecipe(ctx context.Context, sessionID, recipeName string) (*ParsedRecipe, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Blocking model call outside the session lock.
	parsed, err := s.recipes.DetailedRecipe(ctx, recipeName, sess.Preferences.Format())
	if err != nil {
		return nil, err
	}

	_, err = s.sessions.Update(ctx, sessionID, func(cs *types.CookingSession) error {
		cs.RecipeName = recipeName
		cs.Ingredients = parsed.Ingredients
		cs.Steps = append([]string(nil), parsed.Steps...)
		cs.Tips = parsed.Tips
		cs.CurrentStepIndex = 0
		cs.History = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

// NextStep delivers the next cooking step and advances the cursor.
// Completion is reported lazily: the call after the one that delivered the
// last step is the first to report completed=true. That call, and every
// one after it, returns a nil step with the tips.
func (s *CookingService) NextStep(ctx context.Context, sessionID string) (*types.NextStepResponse, error) {
	var resp types.NextStepResponse

	_, err := s.sessions.Update(ctx, sessionID, func(cs *types.CookingSession) error {
		if !cs.HasRecipe() {
			return ErrNoRecipeSelected
		}

		total := len(cs.Steps)
		if cs.CurrentStepIndex >= total {
			resp = types.NextStepResponse{
				Step:       nil,
				StepNumber: total,
				TotalSteps: total,
				Completed:  true,
				Tips:       cs.Tips,
				Message:    "All steps completed!",
			}
			return nil
		}

		step := cs.Steps[cs.CurrentStepIndex]
		cs.CurrentStepIndex++
		cs.History = append(cs.History, types.StepHistoryEntry{
			StepNumber: cs.CurrentStepIndex,
			StepText:   step,
			Timestamp:  time.Now().UTC(),
		})

		resp = types.NextStepResponse{
			Step:       &step,
			StepNumber: cs.CurrentStepIndex,
			TotalSteps: total,
			Completed:  false,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SkipSteps jumps the cursor past every remaining step, making tips
// available immediately. Valid from any in-progress position, including
// before the first step.
func (s *CookingService) SkipSteps(ctx context.Context, sessionID string) (string, error) {
	var tips string
	_, err := s.sessions.Update(ctx, sessionID, func(cs *types.CookingSession) error {
		if !cs.HasRecipe() {
			return ErrNoRecipeSelected
		}
		cs.CurrentStepIndex = len(cs.Steps)
		tips = cs.Tips
		return nil
	})
	if err != nil {
		return "", err
	}
	return tips, nil
}

// StepImage produces the visual guide for the most recently delivered step
// (cursor - 1), never the step about to be delivered. Calling it before
// any step has been handed out is a caller error.
func (s *CookingService) StepImage(ctx context.Context, sessionID string) (*types.StepImageResult, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.HasRecipe() {
		return nil, ErrNoRecipeSelected
	}
	if sess.CurrentStepIndex == 0 {
		return nil, ErrNoStepDelivered
	}

	stepIdx := sess.CurrentStepIndex - 1
	if stepIdx >= len(sess.Steps) {
		stepIdx = len(sess.Steps) - 1
	}
	stepText := sess.Steps[stepIdx]

	result, err := s.images.GenerateStepImage(ctx, sess.RecipeName, stepText)
	if err != nil {
		return nil, err
	}

	// Mark the history entry; best effort, the image result itself is not
	// session state.
	if _, err := s.sessions.Update(ctx, sessionID, func(cs *types.CookingSession) error {
		for i := range cs.History {
			if cs.History[i].StepNumber == stepIdx+1 {
				cs.History[i].ImageGenerated = true
				cs.History[i].ImagePrompt = result.Description
			}
		}
		return nil
	}); err != nil {
		log.Printf("[Session] Failed to record image generation for %s: %v", sessionID, err)
	}

	return result, nil
}

// Alternatives asks the model for ranked substitutes for a missing
// ingredient. Pure query; session state is only read for context.
func (s *CookingService) Alternatives(ctx context.Context, sessionID, missing, recipeContext string) (*types.SubstitutionResult, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if recipeContext == "" {
		recipeContext = sess.RecipeName
	}
	return s.subs.Alternatives(ctx, missing, recipeContext)
}

// GetSession returns the read-only summary for sessionID.
func (s *CookingService) GetSession(ctx context.Context, sessionID string) (*types.SessionSummary, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &types.SessionSummary{
		SessionID:     sess.ID,
		CurrentRecipe: sess.RecipeName,
		CurrentStep:   sess.CurrentStepIndex,
		TotalSteps:    len(sess.Steps),
		HasRecipe:     sess.HasRecipe(),
		CreatedAt:     sess.CreatedAt,
	}, nil
}

// GetHistory returns every step delivered so far.
func (s *CookingService) GetHistory(ctx context.Context, sessionID string) ([]types.StepHistoryEntry, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.History, nil
}

// DeleteSession removes the session. Subsequent calls for the id fail with
// ErrSessionNotFound.
func (s *CookingService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
