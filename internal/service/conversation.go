package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/english-rpg/trainer/internal/gateway"
	"github.com/english-rpg/trainer/internal/prompts"
)

// ConversationService drives free conversation practice in English.
type ConversationService struct {
	gw     gateway.Client
	logger *slog.Logger
}

func NewConversationService(gw gateway.Client, logger *slog.Logger) *ConversationService {
	return &ConversationService{gw: gw, logger: logger}
}

// Start opens a conversation on a topic and returns the partner's opener.
func (s *ConversationService) Start(ctx context.Context, topic, level, model string) (string, error) {
	resp, err := s.gw.Invoke(ctx, gateway.Request{
		System:      prompts.Conversation(topic, level),
		User:        fmt.Sprintf("Start a conversation about %s, appropriate for %s level.", topic, level),
		Model:       model,
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("start conversation: %w", err)
	}
	return resp.Content, nil
}

// Continue sends the learner's message along with the transcript so far.
func (s *ConversationService) Continue(ctx context.Context, topic, level, model, message string, transcript []string) (string, error) {
	resp, err := s.gw.Invoke(ctx, gateway.Request{
		System:      prompts.Conversation(topic, level),
		User:        "Conversation so far:\n" + strings.Join(transcript, "\n") + "\n\nStudent says: " + message,
		Model:       model,
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("continue conversation: %w", err)
	}
	return resp.Content, nil
}
