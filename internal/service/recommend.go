package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/platewise/souschef/internal/rag"
	"github.com/platewise/souschef/internal/types"
)

// Recommendation is the raw model output plus the best-effort parsed
// candidates. The text is the source of truth; Candidates may hold fewer
// than three entries.
type Recommendation struct {
	Text       string
	Candidates []types.RecipeCandidate
}

// RecommendationService merges user preferences with retrieved corpus
// passages and asks the model for exactly three recipe recommendations.
type RecommendationService struct {
	llm       TextGenerator
	retriever *rag.Retriever
	parser    CandidateParser
}

// NewRecommendationService wires the engine. retriever may be backed by an
// empty index; recommendations then come from preferences alone.
func NewRecommendationService(llm TextGenerator, retriever *rag.Retriever, parser CandidateParser) *RecommendationService {
	if parser == nil {
		parser = NewNumberedListParser()
	}
	return &RecommendationService{llm: llm, retriever: retriever, parser: parser}
}

// searchQueryLimit caps how much of the preference text is used as the
// retrieval query.
const searchQueryLimit = 200

// searchCorpus runs a retrieval query, classifying any failure as
// ErrIndexUnavailable so callers degrade to generation without context.
func searchCorpus(ctx context.Context, r *rag.Retriever, query string) ([]rag.Passage, error) {
	passages, err := r.Search(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return passages, nil
}

// Recommend returns ranked recipe recommendations for prefs. Retrieval
// failures degrade to preference-only generation; model failures surface
// as ErrRecommendationFailed with no retry.
func (s *RecommendationService) Recommend(ctx context.Context, prefs types.Preferences) (*Recommendation, error) {
	prefsBlock := prefs.Format()

	query := prefsBlock
	if len(query) > searchQueryLimit {
		cut := searchQueryLimit
		for cut > 0 && !utf8.RuneStart(query[cut]) {
			cut--
		}
		query = query[:cut]
	}
	passages, err := searchCorpus(ctx, s.retriever, query)
	if err != nil {
		// Degraded retrieval is not fatal: fall through with no passages.
		log.Printf("[Recommend] %v, continuing without context", err)
		passages = nil
	}

	var prompt string
	if len(passages) > 0 {
		prompt = fmt.Sprintf(recommendWithContextTemplate, rag.ContextBlock(passages), prefsBlock)
	} else {
		prompt = fmt.Sprintf(recommendTemplate, prefsBlock)
	}

	text, err := s.llm.Generate(ctx, recommendSystem, prompt)
	if err != nil {
		if errors.Is(err, ErrGenerationTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRecommendationFailed, err)
	}

	return &Recommendation{
		Text:       text,
		Candidates: s.parser.Parse(text),
	}, nil
}
