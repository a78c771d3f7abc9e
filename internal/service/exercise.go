// Package service orchestrates the exercise workflows: it turns gateway
// calls into domain events and degrades gracefully when the model is
// unreachable, so a transient outage never crashes a session.
package service

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/english-rpg/trainer/internal/domain/trainer"
	"github.com/english-rpg/trainer/internal/gateway"
	"github.com/english-rpg/trainer/internal/prompts"
)

// Exercise is one generated translation exercise.
type Exercise struct {
	French   string
	Notes    string
	Fallback bool // true when the model was unavailable and a canned exercise was used
}

// Evaluation is the model's verdict on a translation attempt. Score is on
// the original 0-10 scale; Normalized converts to the 0..1 domain scale.
type Evaluation struct {
	Score            int      `json:"score"`
	IdealTranslation string   `json:"ideal_translation"`
	MainError        string   `json:"main_error"`
	Lesson           string   `json:"lesson"`
	Suggestions      []string `json:"improvement_suggestions"`
	Fallback         bool     `json:"-"`
}

func (e Evaluation) Normalized() float64 { return float64(e.Score) / 10 }

// ExerciseService generates and evaluates translation exercises.
type ExerciseService struct {
	gw     gateway.JSONClient
	logger *slog.Logger
}

func NewExerciseService(gw gateway.JSONClient, logger *slog.Logger) *ExerciseService {
	return &ExerciseService{gw: gw, logger: logger}
}

// Canned exercises used when the model cannot be reached at all.
var fallbackExercises = []Exercise{
	{French: "Je vais au marché ce matin.", Notes: "Futur proche", Fallback: true},
	{French: "Elle a mangé une pomme hier.", Notes: "Passé composé", Fallback: true},
	{French: "Nous sommes en train de travailler.", Notes: "Présent continu", Fallback: true},
	{French: "Il faut que tu viennes demain.", Notes: "Subjonctif", Fallback: true},
	{French: "Si j'avais de l'argent, j'achèterais une voiture.", Notes: "Conditionnel", Fallback: true},
}

// Generate produces a new exercise tuned to the learner's level, focus,
// theme, and recurring mistakes. Falls back to a simpler prompt on a
// malformed reply, then to a canned exercise when the model is unreachable.
func (s *ExerciseService) Generate(ctx context.Context, st *trainer.State) Exercise {
	var out struct {
		ParagraphFR string `json:"paragraph_fr"`
		Notes       string `json:"notes"`
	}

	level := st.Progress.Level().String()
	req := gateway.Request{
		System:      prompts.Exercise(level, st.LessonFocus, st.Theme, st.RecentPhrases, st.CommonErrors(5)),
		User:        "Génère un exercice de traduction adapté.",
		Model:       st.Settings.Model,
		Temperature: st.Settings.Temperature,
	}

	if _, err := s.gw.InvokeJSON(ctx, req, &out); err == nil && strings.TrimSpace(out.ParagraphFR) != "" {
		return Exercise{French: strings.TrimSpace(out.ParagraphFR), Notes: strings.TrimSpace(out.Notes)}
	} else if err != nil {
		s.logger.Warn("exercise generation failed, trying simple prompt", "error", err)
	}

	// Second chance with a stripped-down prompt; small models sometimes
	// choke on the full instruction set.
	simple := gateway.Request{
		System:      `Generate a simple French sentence for English translation. Respond with JSON: {"paragraph_fr": "your sentence", "notes": ""}`,
		User:        "Level: " + level,
		Model:       st.Settings.Model,
		Temperature: 0.5,
	}
	out.ParagraphFR, out.Notes = "", ""
	if _, err := s.gw.InvokeJSON(ctx, simple, &out); err == nil && strings.TrimSpace(out.ParagraphFR) != "" {
		return Exercise{French: strings.TrimSpace(out.ParagraphFR), Notes: "Exercice de secours"}
	} else if err != nil {
		s.logger.Warn("fallback exercise generation failed, using canned exercise", "error", err)
	}

	return fallbackExercises[rand.Intn(len(fallbackExercises))]
}

// Evaluate scores a translation. When the model is unreachable it degrades
// to a crude length/identity heuristic so the session can continue.
func (s *ExerciseService) Evaluate(ctx context.Context, st *trainer.State, french, translation string) Evaluation {
	var out Evaluation
	req := gateway.Request{
		System:      prompts.Evaluation(french, translation),
		User:        "Évalue cette traduction.",
		Model:       st.Settings.Model,
		Temperature: 0.2, // keep scoring consistent
	}

	if _, err := s.gw.InvokeJSON(ctx, req, &out); err != nil {
		s.logger.Warn("evaluation failed, using heuristic fallback", "error", err)
		return heuristicEvaluation(french, translation)
	}
	out.Score = clampScore(out.Score)
	return out
}

// heuristicEvaluation is the last-resort offline scorer.
func heuristicEvaluation(french, translation string) Evaluation {
	trimmed := strings.TrimSpace(translation)
	var score int
	switch {
	case trimmed == "":
		score = 0
	case strings.EqualFold(trimmed, strings.TrimSpace(french)):
		score = 1 // copied the French verbatim
	case lengthRatioOff(french, trimmed):
		score = 3
	default:
		score = 5
	}
	return Evaluation{
		Score:            score,
		IdealTranslation: "[Traduction idéale non disponible: serveur IA injoignable]",
		MainError:        "Évaluation automatique - serveur IA indisponible",
		Lesson:           "Vérifiez votre connexion IA pour une évaluation détaillée",
		Suggestions:      []string{"Vérifiez votre connexion", "Réessayez plus tard"},
		Fallback:         true,
	}
}

func lengthRatioOff(french, translation string) bool {
	fw := len(strings.Fields(french))
	tw := len(strings.Fields(translation))
	diff := fw - tw
	if diff < 0 {
		diff = -diff
	}
	return diff > fw
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
