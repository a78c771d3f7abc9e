package store

import (
	"errors"

	"github.com/english-rpg/trainer/internal/domain/trainer"
)

var (
	// ErrLocked means another trainer process holds the state lock.
	ErrLocked = errors.New("store: state is locked by another process")
)

// Store owns the durable trainer state. Load on a missing or corrupted
// document yields a fresh state rather than an error; Commit is atomic.
type Store interface {
	Load() (*trainer.State, error)
	Commit(*trainer.State) error

	// Update runs one read-modify-write cycle under the exclusive lock.
	// If fn returns an error nothing is persisted.
	Update(fn func(*trainer.State) error) error
}
