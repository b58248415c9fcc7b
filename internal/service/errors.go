package service

import "errors"

// Typed failures surfaced by the cooking pipeline. Handlers map these to
// HTTP statuses; everything else is an internal error.
var (
	// ErrSessionNotFound means the session id is unknown. The user recovers
	// by starting a new flow, so the API phrases it that way.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoRecipeSelected means a step operation was called before a recipe
	// was loaded into the session.
	ErrNoRecipeSelected = errors.New("no recipe selected")

	// ErrNoStepDelivered means a per-step lookup (image, history position)
	// was requested before any step had been handed out.
	ErrNoStepDelivered = errors.New("no step delivered yet")

	// ErrRecommendationFailed wraps a text-model failure during
	// recommendation. Never retried automatically.
	ErrRecommendationFailed = errors.New("recommendation failed")

	// ErrGenerationFailed wraps any other text- or image-model failure.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrGenerationTimeout means a model call exceeded its deadline.
	// Distinct from ErrGenerationFailed so clients can prompt a retry.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrIndexUnavailable classifies retrieval failures. Callers degrade to
	// generation without corpus context; it never reaches a client.
	ErrIndexUnavailable = errors.New("document index unavailable")
)
