package item

import (
	"strings"
	"time"

	"github.com/english-rpg/trainer/internal/id"
)

type Kind string

const (
	KindTranslation Kind = "translation" // a source-language paragraph to translate
	KindVocabulary  Kind = "vocabulary"  // a single word or phrase with its meaning
	KindGrammar     Kind = "grammar"     // a grammar point practiced in isolation
	KindNote        Kind = "note"        // a saved lesson in the notebook
)

// Item is a single learnable unit. The content payload and creation time are
// immutable once created; only tags and the favorite flag may be edited.
type Item struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Topic     string    `json:"topic,omitempty"`
	Example   string    `json:"example,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
}

func New(kind Kind, content string, now time.Time) *Item {
	return &Item{
		ID:        id.New(),
		Kind:      kind,
		Content:   content,
		CreatedAt: now,
	}
}

// NewVocabulary creates a word card. Title holds the word, Content the
// translation.
func NewVocabulary(word, translation, topic, example string, now time.Time) *Item {
	return &Item{
		ID:        id.New(),
		Kind:      KindVocabulary,
		Title:     word,
		Content:   translation,
		Topic:     topic,
		Example:   example,
		CreatedAt: now,
	}
}

// NewNote creates a notebook entry. Notes carry a title and topic so the
// notebook can be browsed and searched.
func NewNote(title, content, topic string, tags []string, now time.Time) *Item {
	return &Item{
		ID:        id.New(),
		Kind:      KindNote,
		Title:     title,
		Content:   content,
		Topic:     topic,
		Tags:      tags,
		CreatedAt: now,
	}
}

func (it *Item) SetTags(tags []string) {
	it.Tags = tags
}

func (it *Item) ToggleFavorite() {
	it.Favorite = !it.Favorite
}

// Matches reports whether the query appears in the title, content, topic or
// any tag, case-insensitively.
func (it *Item) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Content), q) ||
		strings.Contains(strings.ToLower(it.Topic), q) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
