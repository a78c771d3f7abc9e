package trainer

import "time"

// Challenge is a designated once-per-day bonus activity.
type Challenge struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"` // YYYY-MM-DD
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Instructions string     `json:"instructions"`
	Example      string     `json:"example"`
	Tips         []string   `json:"tips,omitempty"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// ChallengeFor returns the challenge generated for the given calendar day.
func (s *State) ChallengeFor(date string) (*Challenge, bool) {
	for i := range s.Challenges {
		if s.Challenges[i].Date == date {
			return &s.Challenges[i], true
		}
	}
	return nil, false
}

// UpsertChallenge stores a challenge, replacing the content of an existing
// one for the same day without losing its completion status.
func (s *State) UpsertChallenge(c Challenge) *Challenge {
	for i := range s.Challenges {
		if s.Challenges[i].Date == c.Date {
			c.Completed = s.Challenges[i].Completed
			c.CompletedAt = s.Challenges[i].CompletedAt
			s.Challenges[i] = c
			return &s.Challenges[i]
		}
	}
	s.Challenges = append(s.Challenges, c)
	return &s.Challenges[len(s.Challenges)-1]
}

// CompleteChallenge marks the day's challenge complete. Completing an
// already-completed challenge is a no-op on the challenge record.
func (s *State) CompleteChallenge(date string, at time.Time) (*Challenge, bool) {
	c, ok := s.ChallengeFor(date)
	if !ok {
		return nil, false
	}
	if !c.Completed {
		c.Completed = true
		c.CompletedAt = &at
	}
	return c, true
}
