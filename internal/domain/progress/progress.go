// Package progress converts attempt outcomes into XP, CEFR level, and the
// daily streak.
package progress

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidScore = errors.New("progress: score must be between 0.0 and 1.0")

// Level is a CEFR band, ordered A1 through C2.
type Level int

const (
	A1 Level = iota
	A2
	B1
	B2
	C1
	C2
)

func (l Level) String() string {
	switch l {
	case A1:
		return "A1"
	case A2:
		return "A2"
	case B1:
		return "B1"
	case B2:
		return "B2"
	case C1:
		return "C1"
	default:
		return "C2"
	}
}

// Cumulative XP required to enter each level. A1 is the starting band.
var levelThresholds = [...]int{0, 200, 500, 1000, 1500, 2000}

// LevelForXP maps cumulative XP to a level. Monotonically non-decreasing in
// XP by construction.
func LevelForXP(xp int) Level {
	lvl := A1
	for l := A2; l <= C2; l++ {
		if xp >= levelThresholds[l] {
			lvl = l
		}
	}
	return lvl
}

// DailyChallengeBonus is the extra XP for the first completion of the day's
// designated challenge.
const DailyChallengeBonus = 10

// State is the persistent progress record. It is part of the single trainer
// state document and only the engine mutates it.
type State struct {
	XP              int    `json:"xp"`
	Streak          int    `json:"streak"`
	LastActive      string `json:"last_active,omitempty"`      // YYYY-MM-DD
	ChallengeDate   string `json:"challenge_date,omitempty"`   // day of last claimed bonus
	ChallengeID     string `json:"challenge_id,omitempty"`     // challenge claimed that day
	TotalExercises  int    `json:"total_exercises"`
	PerfectAttempts int    `json:"perfect_attempts"`
}

// Level is derived from cumulative XP; it is never stored so it can never
// drift from the XP that implies it.
func (s *State) Level() Level { return LevelForXP(s.XP) }

// Delta describes what one outcome changed.
type Delta struct {
	XP        int
	BonusXP   int
	Streak    int
	Level     Level
	LeveledUp bool
}

// Outcome is one qualifying activity to apply.
type Outcome struct {
	Score            float64
	At               time.Time
	IsDailyChallenge bool
	ChallengeID      string
}

// Apply folds an outcome into the state and returns the resulting delta.
//
// Base XP is the score scaled to 10 points. The daily-challenge bonus is
// granted at most once per calendar day: a repeat completion, even of a
// different challenge, still earns base XP but no bonus. The streak counts consecutive
// calendar days with at least one activity; a gap resets it to 1, repeated
// activity within one day leaves it alone.
func (s *State) Apply(o Outcome) (Delta, error) {
	if o.Score < 0 || o.Score > 1 || math.IsNaN(o.Score) {
		return Delta{}, ErrInvalidScore
	}

	before := s.Level()

	base := int(math.Round(o.Score * 10))
	bonus := 0
	today := o.At.Format("2006-01-02")

	// One bonus per calendar day, no matter how many challenges claim it.
	if o.IsDailyChallenge && s.ChallengeDate != today {
		bonus = DailyChallengeBonus
		s.ChallengeDate = today
		s.ChallengeID = o.ChallengeID
	}

	s.XP += base + bonus
	s.TotalExercises++
	if o.Score >= 1.0 {
		s.PerfectAttempts++
	}
	s.touch(o.At)

	after := s.Level()
	return Delta{
		XP:        base,
		BonusXP:   bonus,
		Streak:    s.Streak,
		Level:     after,
		LeveledUp: after > before,
	}, nil
}

// touch updates the streak for activity at the given time.
func (s *State) touch(at time.Time) {
	today := at.Format("2006-01-02")
	switch s.LastActive {
	case today:
		// Additional activity on the same day does not change the streak.
	case at.AddDate(0, 0, -1).Format("2006-01-02"):
		s.Streak++
	default:
		s.Streak = 1
	}
	s.LastActive = today
}

// ProgressInLevel reports how far into the current level the XP sits, 0..1.
// C2 has no upper bound and always reports 1.
func (s *State) ProgressInLevel() float64 {
	lvl := s.Level()
	if lvl == C2 {
		return 1
	}
	lo, hi := levelThresholds[lvl], levelThresholds[lvl+1]
	return float64(s.XP-lo) / float64(hi-lo)
}
