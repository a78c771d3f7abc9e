package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/english-rpg/trainer/internal/gateway"
	"github.com/english-rpg/trainer/internal/prompts"
)

// VocabWord is one entry of a generated or imported vocabulary set.
type VocabWord struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
	Example     string `json:"example"`
}

// VocabularyService generates themed vocabulary sets for drills.
type VocabularyService struct {
	gw     gateway.JSONClient
	logger *slog.Logger
}

func NewVocabularyService(gw gateway.JSONClient, logger *slog.Logger) *VocabularyService {
	return &VocabularyService{gw: gw, logger: logger}
}

// GenerateSet produces count words for the theme at the learner's level.
func (s *VocabularyService) GenerateSet(ctx context.Context, theme, level, model string, count int) ([]VocabWord, error) {
	var out struct {
		Words []VocabWord `json:"words"`
	}
	_, err := s.gw.InvokeJSON(ctx, gateway.Request{
		System:      prompts.VocabularySet(theme, level, count),
		User:        fmt.Sprintf("Create vocabulary set: %s (%d words)", theme, count),
		Model:       model,
		Temperature: 0.6,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("generate vocabulary: %w", err)
	}
	if len(out.Words) == 0 {
		return nil, &gateway.CallFailure{Kind: gateway.KindMalformed, Attempts: 1,
			Err: fmt.Errorf("model returned an empty vocabulary set")}
	}
	if len(out.Words) > count {
		out.Words = out.Words[:count]
	}
	return out.Words, nil
}

// ExampleFor asks the model for one example sentence for a word. Used by
// the importer's enrichment pass; failures return an empty string so an
// import never aborts over a missing example.
func (s *VocabularyService) ExampleFor(ctx context.Context, word, translation, model string) string {
	resp, err := s.gw.Invoke(ctx, gateway.Request{
		System:      prompts.ExampleSentence(word, translation),
		User:        word,
		Model:       model,
		Temperature: 0.7,
	})
	if err != nil {
		s.logger.Warn("example enrichment failed", "word", word, "error", err)
		return ""
	}
	return resp.Content
}
