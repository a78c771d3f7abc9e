package schedule

import (
	"sort"
	"time"
)

// Candidate pairs an item ID with its review schedule for due-queue
// computation.
type Candidate struct {
	ItemID string
	Review Review
}

// DueItems returns the IDs of candidates due as of the given time, highest
// priority first: most overdue first, ties broken by lower ease (harder items
// surface before easier ones), final ties by item ID. The ordering is fully
// deterministic for a given input.
//
// limit caps the result; zero or negative means no cap.
func DueItems(candidates []Candidate, asOf time.Time, limit int) []string {
	due := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Review.IsDue(asOf) {
			due = append(due, c)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		oi, oj := due[i].Review.Overdue(asOf), due[j].Review.Overdue(asOf)
		if oi != oj {
			return oi > oj
		}
		if due[i].Review.Ease != due[j].Review.Ease {
			return due[i].Review.Ease < due[j].Review.Ease
		}
		return due[i].ItemID < due[j].ItemID
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	ids := make([]string, len(due))
	for i, c := range due {
		ids[i] = c.ItemID
	}
	return ids
}
