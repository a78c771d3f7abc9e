package service

import (
	"time"

	"github.com/english-rpg/trainer/internal/domain/ledger"
	"github.com/english-rpg/trainer/internal/domain/progress"
	"github.com/english-rpg/trainer/internal/domain/schedule"
	"github.com/english-rpg/trainer/internal/domain/trainer"
	"github.com/english-rpg/trainer/internal/id"
)

// Outcome is one finished evaluation, ready to fold into the state.
type Outcome struct {
	ItemID           string
	Score            float64 // 0..1
	At               time.Time
	Latency          time.Duration
	Answer           string
	Feedback         string
	MainError        string
	IsDailyChallenge bool
	ChallengeID      string
}

// Result reports everything one outcome changed.
type Result struct {
	Review   schedule.Review
	Progress progress.Delta
}

// ApplyOutcome runs the full pipeline on a borrowed state: append to the
// attempt ledger, recompute the review schedule, and update XP/streak. The
// state is only persisted by the caller afterwards, so an error here leaves
// nothing half-written on disk.
func ApplyOutcome(st *trainer.State, o Outcome) (Result, error) {
	// Validate both inputs before mutating anything: an unknown item or an
	// invalid score must leave the state untouched.
	if _, err := st.Item(o.ItemID); err != nil {
		return Result{}, err
	}
	delta, err := st.Progress.Apply(progress.Outcome{
		Score:            o.Score,
		At:               o.At,
		IsDailyChallenge: o.IsDailyChallenge,
		ChallengeID:      o.ChallengeID,
	})
	if err != nil {
		return Result{}, err
	}

	review, err := st.RecordAttempt(o.ItemID, ledger.Attempt{
		ID:       id.New(),
		At:       o.At,
		Score:    o.Score,
		Latency:  o.Latency,
		Answer:   o.Answer,
		Feedback: o.Feedback,
	})
	if err != nil {
		return Result{}, err
	}

	if o.MainError != "" {
		st.TrackError(o.MainError)
	}

	return Result{Review: review, Progress: delta}, nil
}
