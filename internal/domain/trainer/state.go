// Package trainer holds the aggregate state document: every learnable item
// with its attempt ledger and review schedule, plus the user's progress.
// The persistence store is the single owner; everything else works on a
// borrowed view for the duration of one command.
package trainer

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/english-rpg/trainer/internal/domain/item"
	"github.com/english-rpg/trainer/internal/domain/ledger"
	"github.com/english-rpg/trainer/internal/domain/progress"
	"github.com/english-rpg/trainer/internal/domain/schedule"
)

var ErrNotFound = errors.New("trainer: item not found")

const (
	maxRecentPhrases = 20
	maxErrorTracking = 50
)

// Entry bundles an item with its ledger and derived review schedule.
type Entry struct {
	Item   *item.Item      `json:"item"`
	Ledger *ledger.Ledger  `json:"ledger"`
	Review schedule.Review `json:"review"`
}

// Settings are user-tunable preferences carried in the state document.
type Settings struct {
	Model                string  `json:"model,omitempty"` // overrides the configured model when set
	Temperature          float64 `json:"temperature"`
	DifficultyPreference string  `json:"difficulty_preference"` // "easy", "normal", "hard", "adaptive"
	ShowDetailedFeedback bool    `json:"show_detailed_feedback"`
	AutoSaveLessons      bool    `json:"auto_save_lessons"`
}

func DefaultSettings() Settings {
	return Settings{
		Temperature:          0.7,
		DifficultyPreference: "adaptive",
		ShowDetailedFeedback: true,
		AutoSaveLessons:      true,
	}
}

// State is the aggregate root persisted as one document.
type State struct {
	Items          map[string]*Entry `json:"items"`
	Progress       progress.State    `json:"progress"`
	Settings       Settings          `json:"settings"`
	LessonFocus    string            `json:"lesson_focus,omitempty"`
	Theme          string            `json:"theme,omitempty"`
	Challenges     []Challenge       `json:"challenges,omitempty"`
	ErrorFrequency map[string]int    `json:"error_frequency,omitempty"`
	RecentPhrases  []string          `json:"recent_phrases,omitempty"`
	Achievements   []string          `json:"achievements,omitempty"` // unlocked milestone names, in unlock order
}

func NewState() *State {
	return &State{
		Items:          make(map[string]*Entry),
		Settings:       DefaultSettings(),
		ErrorFrequency: make(map[string]int),
	}
}

// Normalize repairs nil maps after deserialization so callers never need
// nil checks.
func (s *State) Normalize() {
	if s.Items == nil {
		s.Items = make(map[string]*Entry)
	}
	if s.ErrorFrequency == nil {
		s.ErrorFrequency = make(map[string]int)
	}
	for _, e := range s.Items {
		if e.Ledger == nil {
			e.Ledger = &ledger.Ledger{}
		}
	}
}

// AddItem registers a new item with an empty ledger, due immediately.
func (s *State) AddItem(it *item.Item) *Entry {
	e := &Entry{
		Item:   it,
		Ledger: &ledger.Ledger{},
		Review: schedule.NewReview(it.CreatedAt),
	}
	s.Items[it.ID] = e
	return e
}

// RemoveItem deletes an item along with its ledger and schedule.
func (s *State) RemoveItem(itemID string) error {
	if _, ok := s.Items[itemID]; !ok {
		return ErrNotFound
	}
	delete(s.Items, itemID)
	return nil
}

// Item looks up an entry by item ID.
func (s *State) Item(itemID string) (*Entry, error) {
	e, ok := s.Items[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// RecordAttempt appends the attempt to the item's ledger and recomputes its
// review schedule. Returns the new schedule.
func (s *State) RecordAttempt(itemID string, a ledger.Attempt) (schedule.Review, error) {
	e, err := s.Item(itemID)
	if err != nil {
		return schedule.Review{}, err
	}
	e.Ledger.Record(a)
	e.Review = e.Review.Next(a.Score, a.At)
	return e.Review, nil
}

// History returns the attempt history for an item, most recent last.
func (s *State) History(itemID string) ([]ledger.Attempt, error) {
	e, err := s.Item(itemID)
	if err != nil {
		return nil, err
	}
	return e.Ledger.History(), nil
}

// DueItems returns IDs of reviewable items due as of the given time, highest
// priority first. Notes never enter the review queue.
func (s *State) DueItems(asOf time.Time, limit int) []string {
	candidates := make([]schedule.Candidate, 0, len(s.Items))
	for id, e := range s.Items {
		if e.Item.Kind == item.KindNote {
			continue
		}
		candidates = append(candidates, schedule.Candidate{ItemID: id, Review: e.Review})
	}
	return schedule.DueItems(candidates, asOf, limit)
}

// SetTags replaces the tags of an item.
func (s *State) SetTags(itemID string, tags []string) error {
	e, err := s.Item(itemID)
	if err != nil {
		return err
	}
	e.Item.SetTags(tags)
	return nil
}

// ToggleFavorite flips the favorite flag of an item.
func (s *State) ToggleFavorite(itemID string) error {
	e, err := s.Item(itemID)
	if err != nil {
		return err
	}
	e.Item.ToggleFavorite()
	return nil
}

// TrackError counts a recurring mistake so exercise generation can target it.
// The map is trimmed to the most frequent entries.
func (s *State) TrackError(mainError string) {
	key := strings.ToLower(strings.TrimSpace(mainError))
	if key == "" {
		return
	}
	s.ErrorFrequency[key]++

	if len(s.ErrorFrequency) <= maxErrorTracking {
		return
	}
	type freq struct {
		err   string
		count int
	}
	all := make([]freq, 0, len(s.ErrorFrequency))
	for e, c := range s.ErrorFrequency {
		all = append(all, freq{e, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].err < all[j].err
	})
	trimmed := make(map[string]int, maxErrorTracking)
	for _, f := range all[:maxErrorTracking] {
		trimmed[f.err] = f.count
	}
	s.ErrorFrequency = trimmed
}

// CommonErrors lists the most frequent mistakes, most frequent first.
func (s *State) CommonErrors(limit int) []string {
	type freq struct {
		err   string
		count int
	}
	all := make([]freq, 0, len(s.ErrorFrequency))
	for e, c := range s.ErrorFrequency {
		all = append(all, freq{e, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].err < all[j].err
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]string, len(all))
	for i, f := range all {
		out[i] = f.err
	}
	return out
}

// AddRecentPhrase remembers a generated phrase so new exercises avoid
// repeating it. Bounded to the most recent entries.
func (s *State) AddRecentPhrase(phrase string) {
	s.RecentPhrases = append(s.RecentPhrases, phrase)
	if n := len(s.RecentPhrases); n > maxRecentPhrases {
		kept := make([]string, maxRecentPhrases)
		copy(kept, s.RecentPhrases[n-maxRecentPhrases:])
		s.RecentPhrases = kept
	}
}

// Notes returns all notebook entries, newest first.
func (s *State) Notes() []*item.Item {
	var notes []*item.Item
	for _, e := range s.Items {
		if e.Item.Kind == item.KindNote {
			notes = append(notes, e.Item)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
	return notes
}

// SearchNotes returns notebook entries matching the query.
func (s *State) SearchNotes(query string) []*item.Item {
	var matched []*item.Item
	for _, n := range s.Notes() {
		if n.Matches(query) {
			matched = append(matched, n)
		}
	}
	return matched
}
