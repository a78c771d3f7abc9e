package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/english-rpg/trainer/internal/domain/trainer"
)

// FileStore persists the trainer state as a single JSON document guarded by
// a sidecar lock file. Writes go to a temp file first and are renamed into
// place, so a crash mid-commit leaves the previous document intact.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path, lockPath string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		lock:   flock.New(lockPath),
		logger: logger,
	}
}

// Load reads the state document. A missing file is a normal first run and a
// corrupted one is a recoverable condition: both yield a fresh state.
func (fs *FileStore) Load() (*trainer.State, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return trainer.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", fs.path, err)
	}

	var st trainer.State
	if err := json.Unmarshal(data, &st); err != nil {
		fs.logger.Warn("state document corrupted, starting fresh",
			"path", fs.path,
			"error", err,
		)
		return trainer.NewState(), nil
	}
	st.Normalize()
	return &st, nil
}

// Commit durably writes the full state under the exclusive lock. Fails with
// ErrLocked when another process holds it.
func (fs *FileStore) Commit(st *trainer.State) error {
	unlock, err := fs.acquire()
	if err != nil {
		return err
	}
	defer unlock()
	return fs.write(st)
}

// Update acquires the lock once for the whole read-modify-write cycle. When
// fn fails, the on-disk document is left untouched.
func (fs *FileStore) Update(fn func(*trainer.State) error) error {
	unlock, err := fs.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	st, err := fs.Load()
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	return fs.write(st)
}

func (fs *FileStore) acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	ok, err := fs.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("store: acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		if err := fs.lock.Unlock(); err != nil {
			fs.logger.Warn("failed to release state lock", "error", err)
		}
	}, nil
}

// write marshals the state and replaces the document atomically.
func (fs *FileStore) write(st *trainer.State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal state: %w", err)
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: replace state file: %w", err)
	}
	return nil
}
