// Package achievement awards named milestones as the learner progresses.
// Unlocked names are recorded in the state document so an achievement is
// announced exactly once.
package achievement

import (
	"strings"

	"github.com/english-rpg/trainer/internal/domain/item"
	"github.com/english-rpg/trainer/internal/domain/progress"
	"github.com/english-rpg/trainer/internal/domain/trainer"
)

// Achievement is a milestone with its unlock condition.
type Achievement struct {
	Name        string
	Description string
	unlocked    func(*trainer.State) bool
}

var catalog = []Achievement{
	{
		"Premiers pas",
		"Complétez votre premier exercice",
		func(st *trainer.State) bool { return st.Progress.TotalExercises >= 1 },
	},
	{
		"Débutant assidu",
		"Complétez 10 exercices",
		func(st *trainer.State) bool { return st.Progress.TotalExercises >= 10 },
	},
	{
		"Élève studieux",
		"Complétez 50 exercices",
		func(st *trainer.State) bool { return st.Progress.TotalExercises >= 50 },
	},
	{
		"Champion de la traduction",
		"Complétez 100 exercices",
		func(st *trainer.State) bool { return st.Progress.TotalExercises >= 100 },
	},
	{
		"Perfectionniste",
		"Obtenez un score de 10 sur un exercice",
		func(st *trainer.State) bool { return st.Progress.PerfectAttempts >= 1 },
	},
	{
		"Expert des révisions",
		"Complétez 20 révisions",
		func(st *trainer.State) bool { return reviewCount(st) >= 20 },
	},
	{
		"Collectionneur de leçons",
		"Sauvegardez 5 leçons dans votre cahier",
		func(st *trainer.State) bool { return len(st.Notes()) >= 5 },
	},
	{
		"Polyglotte en herbe",
		"Atteignez le niveau B1",
		func(st *trainer.State) bool { return st.Progress.Level() >= progress.B1 },
	},
	{
		"Motivé",
		"Maintenez une série de 7 jours",
		func(st *trainer.State) bool { return st.Progress.Streak >= 7 },
	},
	{
		"Déterminé",
		"Maintenez une série de 30 jours",
		func(st *trainer.State) bool { return st.Progress.Streak >= 30 },
	},
	{
		"Défi accepté",
		"Relevez 5 défis quotidiens",
		func(st *trainer.State) bool { return completedChallenges(st) >= 5 },
	},
	{
		"Explorateur",
		"Étudiez 10 sujets différents",
		func(st *trainer.State) bool { return distinctTopics(st) >= 10 },
	},
}

// Total is the size of the catalog.
func Total() int { return len(catalog) }

// Check evaluates every locked milestone against the state, records the
// ones now met, and returns them in catalog order. A name already present
// in the state is never returned again.
func Check(st *trainer.State) []Achievement {
	have := make(map[string]bool, len(st.Achievements))
	for _, name := range st.Achievements {
		have[name] = true
	}

	var unlocked []Achievement
	for _, a := range catalog {
		if have[a.Name] || !a.unlocked(st) {
			continue
		}
		st.Achievements = append(st.Achievements, a.Name)
		unlocked = append(unlocked, a)
	}
	return unlocked
}

// reviewCount counts repeat attempts on reviewable items. The first attempt
// is the exercise itself, every later one is a review.
func reviewCount(st *trainer.State) int {
	n := 0
	for _, e := range st.Items {
		if e.Item.Kind == item.KindNote {
			continue
		}
		if extra := e.Ledger.Len() - 1; extra > 0 {
			n += extra
		}
	}
	return n
}

func completedChallenges(st *trainer.State) int {
	n := 0
	for _, ch := range st.Challenges {
		if ch.Completed {
			n++
		}
	}
	return n
}

func distinctTopics(st *trainer.State) int {
	seen := make(map[string]bool)
	for _, e := range st.Items {
		topic := strings.ToLower(strings.TrimSpace(e.Item.Topic))
		if topic != "" {
			seen[topic] = true
		}
	}
	return len(seen)
}
