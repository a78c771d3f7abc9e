package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/english-rpg/trainer/internal/gateway"
	"github.com/english-rpg/trainer/internal/prompts"
)

// LessonService generates mini-lessons and answers follow-up questions.
type LessonService struct {
	gw     gateway.Client
	logger *slog.Logger
}

func NewLessonService(gw gateway.Client, logger *slog.Logger) *LessonService {
	return &LessonService{gw: gw, logger: logger}
}

// Generate produces a Markdown lesson on the topic. Lessons are free text,
// so gateway failures surface to the caller for a retry-or-skip choice.
func (s *LessonService) Generate(ctx context.Context, topic, level, model string) (string, error) {
	resp, err := s.gw.Invoke(ctx, gateway.Request{
		System:      prompts.Lesson(topic, level),
		User:        "Crée une leçon complète sur: " + topic,
		Model:       model,
		Temperature: 0.6,
	})
	if err != nil {
		return "", fmt.Errorf("generate lesson: %w", err)
	}
	return resp.Content, nil
}

// Answer responds to a learner's question in the context of a lesson.
func (s *LessonService) Answer(ctx context.Context, question, lessonContext, model string) (string, error) {
	resp, err := s.gw.Invoke(ctx, gateway.Request{
		System:      prompts.Lesson("répondre aux questions de l'élève", "") + "\n\nCONTEXTE:\n" + lessonContext,
		User:        "L'élève demande: " + question + "\n\nRéponds de manière précise avec des exemples.",
		Model:       model,
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	return resp.Content, nil
}
