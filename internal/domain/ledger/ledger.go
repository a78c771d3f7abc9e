package ledger

import (
	"encoding/json"
	"time"
)

// MaxAttempts bounds the per-item history; recording beyond it evicts the
// oldest entries first.
const MaxAttempts = 300

// Attempt is one recorded evaluation of a user's response to an item.
type Attempt struct {
	ID       string        `json:"id"`
	At       time.Time     `json:"at"`
	Score    float64       `json:"score"` // 0.0 (wrong) .. 1.0 (perfect)
	Latency  time.Duration `json:"latency,omitempty"`
	Answer   string        `json:"answer,omitempty"`
	Feedback string        `json:"feedback,omitempty"`
}

// Ledger is an append-only, size-bounded history of attempts for one item.
// Existing entries are never reordered or edited.
type Ledger struct {
	attempts []Attempt
}

// Record appends the attempt and evicts from the front once the ledger
// exceeds MaxAttempts.
func (l *Ledger) Record(a Attempt) {
	l.attempts = append(l.attempts, a)
	if n := len(l.attempts); n > MaxAttempts {
		// Copy rather than re-slice so evicted entries can be collected.
		kept := make([]Attempt, MaxAttempts)
		copy(kept, l.attempts[n-MaxAttempts:])
		l.attempts = kept
	}
}

// History returns a snapshot of the attempts, most recent last. Mutating the
// returned slice does not affect the ledger.
func (l *Ledger) History() []Attempt {
	out := make([]Attempt, len(l.attempts))
	copy(out, l.attempts)
	return out
}

// Len reports the number of retained attempts.
func (l *Ledger) Len() int { return len(l.attempts) }

// Last returns the most recent attempt, or false when the ledger is empty.
func (l *Ledger) Last() (Attempt, bool) {
	if len(l.attempts) == 0 {
		return Attempt{}, false
	}
	return l.attempts[len(l.attempts)-1], true
}

// RecentAverage is the mean score of the last n attempts (all of them when
// fewer have been recorded). Returns 0 for an empty ledger.
func (l *Ledger) RecentAverage(n int) float64 {
	if len(l.attempts) == 0 || n <= 0 {
		return 0
	}
	start := len(l.attempts) - n
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, a := range l.attempts[start:] {
		sum += a.Score
	}
	return sum / float64(len(l.attempts)-start)
}

// MarshalJSON persists the ledger as a plain attempt array so the state
// document stays flat and inspectable.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	if l.attempts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.attempts)
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var attempts []Attempt
	if err := json.Unmarshal(data, &attempts); err != nil {
		return err
	}
	// Enforce the bound on load in case the document was written by an
	// older build with a larger limit.
	if len(attempts) > MaxAttempts {
		attempts = attempts[len(attempts)-MaxAttempts:]
	}
	l.attempts = attempts
	return nil
}
