package achievement_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/english-rpg/trainer/internal/domain/achievement"
	"github.com/english-rpg/trainer/internal/domain/item"
	"github.com/english-rpg/trainer/internal/domain/ledger"
	"github.com/english-rpg/trainer/internal/domain/trainer"
)

var now = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func names(unlocked []achievement.Achievement) []string {
	out := make([]string, len(unlocked))
	for i, a := range unlocked {
		out[i] = a.Name
	}
	return out
}

func TestCheck_FirstExercise(t *testing.T) {
	st := trainer.NewState()
	st.Progress.TotalExercises = 1

	got := names(achievement.Check(st))
	if len(got) != 1 || got[0] != "Premiers pas" {
		t.Fatalf("unlocked = %v, want [Premiers pas]", got)
	}
	if len(st.Achievements) != 1 || st.Achievements[0] != "Premiers pas" {
		t.Errorf("state records = %v", st.Achievements)
	}
}

func TestCheck_UnlocksOnlyOnce(t *testing.T) {
	st := trainer.NewState()
	st.Progress.TotalExercises = 1

	achievement.Check(st)
	if again := achievement.Check(st); len(again) != 0 {
		t.Errorf("second check re-announced %v", names(again))
	}
	if len(st.Achievements) != 1 {
		t.Errorf("state records = %v, want one entry", st.Achievements)
	}
}

func TestCheck_Thresholds(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*trainer.State)
		want  string
	}{
		{"ten exercises", func(st *trainer.State) { st.Progress.TotalExercises = 10 }, "Débutant assidu"},
		{"perfect score", func(st *trainer.State) { st.Progress.PerfectAttempts = 1 }, "Perfectionniste"},
		{"level B1", func(st *trainer.State) { st.Progress.XP = 500 }, "Polyglotte en herbe"},
		{"week streak", func(st *trainer.State) { st.Progress.Streak = 7 }, "Motivé"},
		{"month streak", func(st *trainer.State) { st.Progress.Streak = 30 }, "Déterminé"},
		{"five notes", func(st *trainer.State) {
			for i := 0; i < 5; i++ {
				st.AddItem(item.NewNote(fmt.Sprintf("note %d", i), "contenu", "grammaire", nil, now))
			}
		}, "Collectionneur de leçons"},
		{"five challenges", func(st *trainer.State) {
			for i := 0; i < 5; i++ {
				st.Challenges = append(st.Challenges, trainer.Challenge{
					ID: fmt.Sprintf("c%d", i), Date: fmt.Sprintf("2026-07-0%d", i+1), Completed: true,
				})
			}
		}, "Défi accepté"},
		{"ten topics", func(st *trainer.State) {
			for i := 0; i < 10; i++ {
				word := fmt.Sprintf("word%d", i)
				st.AddItem(item.NewVocabulary(word, "mot", fmt.Sprintf("topic%d", i), "", now))
			}
		}, "Explorateur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := trainer.NewState()
			tt.setup(st)
			got := names(achievement.Check(st))
			found := false
			for _, n := range got {
				if n == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("unlocked = %v, want %q included", got, tt.want)
			}
		})
	}
}

func TestCheck_ReviewsCountRepeatAttemptsOnly(t *testing.T) {
	st := trainer.NewState()
	it := item.New(item.KindTranslation, "Je vais bien.", now)
	st.AddItem(it)
	// First attempt is the exercise; the next 20 are reviews.
	for i := 0; i <= 20; i++ {
		at := now.Add(time.Duration(i) * time.Hour)
		if _, err := st.RecordAttempt(it.ID, ledger.Attempt{Score: 0.9, At: at}); err != nil {
			t.Fatal(err)
		}
	}

	got := names(achievement.Check(st))
	found := false
	for _, n := range got {
		if n == "Expert des révisions" {
			found = true
		}
	}
	if !found {
		t.Errorf("unlocked = %v, want Expert des révisions included", got)
	}
}
