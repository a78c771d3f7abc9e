package schedule_test

import (
	"testing"
	"time"

	"github.com/english-rpg/trainer/internal/domain/schedule"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNext_FirstCorrectAttempt(t *testing.T) {
	r := schedule.NewReview(t0).Next(1.0, t0)

	if r.Interval != schedule.FirstInterval {
		t.Errorf("expected first interval %v, got %v", schedule.FirstInterval, r.Interval)
	}
	if r.Streak != 1 {
		t.Errorf("expected streak 1, got %d", r.Streak)
	}
	if !r.Due.Equal(t0.Add(schedule.FirstInterval)) {
		t.Errorf("expected due %v, got %v", t0.Add(schedule.FirstInterval), r.Due)
	}
}

func TestNext_CorrectSequence_IntervalNonDecreasing(t *testing.T) {
	r := schedule.NewReview(t0)
	now := t0
	prev := time.Duration(0)

	for i := 0; i < 30; i++ {
		r = r.Next(1.0, now)
		if r.Interval < prev {
			t.Fatalf("interval decreased on correct attempt %d: %v -> %v", i, prev, r.Interval)
		}
		if r.Ease > schedule.MaxEase {
			t.Fatalf("ease %v exceeds ceiling %v", r.Ease, schedule.MaxEase)
		}
		prev = r.Interval
		now = r.Due
	}

	if r.Interval != schedule.MaxInterval {
		t.Errorf("expected interval capped at %v after long streak, got %v", schedule.MaxInterval, r.Interval)
	}
}

func TestNext_IncorrectResetsProgress(t *testing.T) {
	r := schedule.NewReview(t0)
	now := t0
	for i := 0; i < 8; i++ {
		r = r.Next(1.0, now)
		now = r.Due
	}
	if r.Streak != 8 {
		t.Fatalf("setup: expected streak 8, got %d", r.Streak)
	}

	r = r.Next(0.2, now)

	if r.Streak != 0 {
		t.Errorf("expected streak reset to 0, got %d", r.Streak)
	}
	if r.Interval != 0 {
		t.Errorf("expected interval reset, got %v", r.Interval)
	}
	if !r.Due.Equal(now) {
		t.Errorf("expected item due immediately after failure, due %v at %v", r.Due, now)
	}
}

func TestNext_EaseBounds(t *testing.T) {
	r := schedule.NewReview(t0)
	now := t0

	// Repeated failures must not push ease below the floor.
	for i := 0; i < 20; i++ {
		r = r.Next(0.0, now)
	}
	if r.Ease != schedule.MinEase {
		t.Errorf("expected ease floored at %v, got %v", schedule.MinEase, r.Ease)
	}

	// Repeated strong answers must not push ease above the ceiling.
	for i := 0; i < 40; i++ {
		r = r.Next(1.0, now)
		now = r.Due
	}
	if r.Ease != schedule.MaxEase {
		t.Errorf("expected ease capped at %v, got %v", schedule.MaxEase, r.Ease)
	}
}

func TestNext_ModerateScoreKeepsEase(t *testing.T) {
	r := schedule.NewReview(t0).Next(0.7, t0)

	if r.Ease != schedule.InitialEase {
		t.Errorf("expected ease unchanged at %v for a moderate pass, got %v", schedule.InitialEase, r.Ease)
	}
	if r.Streak != 1 {
		t.Errorf("moderate pass should still count toward the streak, got %d", r.Streak)
	}
}

func TestNext_DueNeverBeforeAttempt(t *testing.T) {
	scores := []float64{0.0, 0.3, 0.6, 0.7, 0.85, 1.0}
	for _, s := range scores {
		r := schedule.NewReview(t0).Next(s, t0)
		if r.Due.Before(t0) {
			t.Errorf("score %v: due %v precedes attempt time %v", s, r.Due, t0)
		}
	}
}

func TestDueItems_FiltersAndOrders(t *testing.T) {
	day := 24 * time.Hour
	asOf := t0.Add(10 * day)

	candidates := []schedule.Candidate{
		{ItemID: "future", Review: schedule.Review{Due: asOf.Add(day), Ease: 2.0}},
		{ItemID: "barely-due", Review: schedule.Review{Due: asOf, Ease: 2.0}},
		{ItemID: "overdue-easy", Review: schedule.Review{Due: asOf.Add(-3 * day), Ease: 2.8}},
		{ItemID: "overdue-hard", Review: schedule.Review{Due: asOf.Add(-3 * day), Ease: 1.4}},
		{ItemID: "most-overdue", Review: schedule.Review{Due: asOf.Add(-7 * day), Ease: 2.5}},
	}

	got := schedule.DueItems(candidates, asOf, 0)
	want := []string{"most-overdue", "overdue-hard", "overdue-easy", "barely-due"}

	if len(got) != len(want) {
		t.Fatalf("expected %d due items, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestDueItems_NeverReturnsFutureItems(t *testing.T) {
	candidates := []schedule.Candidate{
		{ItemID: "a", Review: schedule.Review{Due: t0.Add(time.Second), Ease: 2.5}},
		{ItemID: "b", Review: schedule.Review{Due: t0.Add(time.Hour), Ease: 2.5}},
	}
	if got := schedule.DueItems(candidates, t0, 10); len(got) != 0 {
		t.Errorf("expected no due items, got %v", got)
	}
}

func TestDueItems_Limit(t *testing.T) {
	day := 24 * time.Hour
	var candidates []schedule.Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, schedule.Candidate{
			ItemID: string(rune('a' + i)),
			Review: schedule.Review{Due: t0.Add(-time.Duration(i) * day), Ease: 2.5},
		})
	}

	got := schedule.DueItems(candidates, t0, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	// Highest-priority subset: the three most overdue.
	want := []string{"j", "i", "h"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestDueItems_Deterministic(t *testing.T) {
	candidates := []schedule.Candidate{
		{ItemID: "x", Review: schedule.Review{Due: t0, Ease: 2.5}},
		{ItemID: "y", Review: schedule.Review{Due: t0, Ease: 2.5}},
		{ItemID: "z", Review: schedule.Review{Due: t0, Ease: 2.5}},
	}

	first := schedule.DueItems(candidates, t0, 0)
	for i := 0; i < 20; i++ {
		again := schedule.DueItems(candidates, t0, 0)
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("ordering not deterministic: %v vs %v", first, again)
			}
		}
	}
}

// Scenario from a fresh state: one incorrect attempt leaves the item due
// right away; a later correct attempt pushes it out of the due queue.
func TestScenario_FailThenPass(t *testing.T) {
	day := 24 * time.Hour

	r := schedule.NewReview(t0).Next(0.0, t0)
	got := schedule.DueItems([]schedule.Candidate{{ItemID: "X", Review: r}}, t0, 10)
	if len(got) != 1 || got[0] != "X" {
		t.Fatalf("expected [X] due at t0 after a failure, got %v", got)
	}

	r = r.Next(1.0, t0.Add(day))
	if !r.Due.After(t0.Add(day)) {
		t.Fatalf("expected due to move past t0+1d, got %v", r.Due)
	}
	got = schedule.DueItems([]schedule.Candidate{{ItemID: "X", Review: r}}, t0.Add(day), 10)
	if len(got) != 0 {
		t.Errorf("expected X no longer due at t0+1d, got %v", got)
	}
}
