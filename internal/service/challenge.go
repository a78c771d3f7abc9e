package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/english-rpg/trainer/internal/domain/trainer"
	"github.com/english-rpg/trainer/internal/gateway"
	"github.com/english-rpg/trainer/internal/id"
	"github.com/english-rpg/trainer/internal/prompts"
)

// ChallengeService generates and tracks the once-per-day bonus challenge.
type ChallengeService struct {
	gw     gateway.JSONClient
	logger *slog.Logger
}

func NewChallengeService(gw gateway.JSONClient, logger *slog.Logger) *ChallengeService {
	return &ChallengeService{gw: gw, logger: logger}
}

// EnsureToday returns the challenge for the given day, generating and
// storing one if it does not exist yet. Generation failures degrade to a
// canned challenge rather than blocking the session.
func (s *ChallengeService) EnsureToday(ctx context.Context, st *trainer.State, now time.Time) *trainer.Challenge {
	date := now.Format("2006-01-02")
	if c, ok := st.ChallengeFor(date); ok {
		return c
	}

	var out struct {
		ChallengeType string   `json:"challenge_type"`
		Title         string   `json:"title"`
		Description   string   `json:"description"`
		Instructions  string   `json:"instructions"`
		Example       string   `json:"example"`
		Tips          []string `json:"tips"`
	}
	req := gateway.Request{
		System:      prompts.DailyChallenge(date),
		User:        "Génère un défi quotidien pour la date: " + date,
		Temperature: 0.7,
	}

	c := trainer.Challenge{ID: id.New(), Date: date}
	if _, err := s.gw.InvokeJSON(ctx, req, &out); err == nil && out.Title != "" {
		c.Type = out.ChallengeType
		c.Title = out.Title
		c.Description = out.Description
		c.Instructions = out.Instructions
		c.Example = out.Example
		c.Tips = out.Tips
	} else {
		if err != nil {
			s.logger.Warn("daily challenge generation failed, using canned challenge", "error", err)
		}
		c.Type = "translation"
		c.Title = "Défi de traduction du jour"
		c.Description = "Traduisez cette phrase courante en anglais"
		c.Instructions = "Traduisez la phrase suivante en anglais"
		c.Example = "Bonjour, comment allez-vous aujourd'hui?"
		c.Tips = []string{"Concentrez-vous sur le temps verbal", "Pensez aux formules de politesse"}
	}

	return st.UpsertChallenge(c)
}
