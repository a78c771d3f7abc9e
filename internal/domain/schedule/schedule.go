// Package schedule implements an SM-2 style adaptive review scheduler.
//
// Constants follow the classic SuperMemo-2 tuning: ease starts at 2.5 and is
// clamped to [1.3, 3.0]. A failed review makes the item due again immediately
// rather than tomorrow, so a session can re-drill it right away.
package schedule

import (
	"math"
	"time"
)

const (
	InitialEase = 2.5
	MinEase     = 1.3
	MaxEase     = 3.0

	// PassThreshold separates a correct attempt from an incorrect one.
	PassThreshold = 0.6
	// strongThreshold marks an attempt good enough to grow the ease factor.
	strongThreshold = 0.85

	// FirstInterval is the interval after the first correct attempt.
	FirstInterval = 24 * time.Hour
	// MaxInterval caps interval growth at one year.
	MaxInterval = 365 * 24 * time.Hour
)

// Review is the derived per-item schedule. It is recomputed after every
// attempt and never edited directly.
type Review struct {
	Due         time.Time     `json:"due"`
	Interval    time.Duration `json:"interval"`
	Ease        float64       `json:"ease"`
	Streak      int           `json:"streak"` // consecutive successes
	LastAttempt time.Time     `json:"last_attempt"`
}

// NewReview is the schedule for an item that has just been created: due
// immediately, default ease, no history.
func NewReview(createdAt time.Time) Review {
	return Review{
		Due:  createdAt,
		Ease: InitialEase,
	}
}

// Next computes the schedule that follows recording an attempt with the
// given score at the given time. The receiver is not mutated.
//
// Correct attempt (score >= PassThreshold): ease grows slightly on a strong
// answer, bounded above; the interval is multiplied by the ease factor and
// capped. Incorrect attempt: ease shrinks, bounded below; the interval
// resets and the item is due again immediately.
func (r Review) Next(score float64, at time.Time) Review {
	next := r
	if next.Ease == 0 {
		next.Ease = InitialEase
	}
	next.LastAttempt = at

	if score < PassThreshold {
		next.Ease = clampEase(next.Ease - 0.2)
		next.Streak = 0
		next.Interval = 0
		next.Due = at
		return next
	}

	if score >= strongThreshold {
		next.Ease = clampEase(next.Ease + 0.1)
	}
	next.Streak++

	if next.Interval <= 0 {
		next.Interval = FirstInterval
	} else {
		grown := time.Duration(math.Round(float64(next.Interval) * next.Ease))
		if grown > MaxInterval {
			grown = MaxInterval
		}
		next.Interval = grown
	}
	next.Due = at.Add(next.Interval)
	return next
}

// IsDue reports whether the item should be reviewed as of the given time.
func (r Review) IsDue(asOf time.Time) bool {
	return !r.Due.After(asOf)
}

// Overdue is how far past due the item is as of the given time. Negative
// when the item is not yet due.
func (r Review) Overdue(asOf time.Time) time.Duration {
	return asOf.Sub(r.Due)
}

func clampEase(e float64) float64 {
	if e < MinEase {
		return MinEase
	}
	if e > MaxEase {
		return MaxEase
	}
	return e
}
