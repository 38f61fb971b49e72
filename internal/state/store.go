package state

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"javadocbot/internal/models"
)

// CorruptError reports a state file that exists but cannot be parsed. Callers
// must treat it as fatal; resetting is an operator decision, never automatic.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("state file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store persists the run state as a single human-inspectable JSON record.
// It assumes a single writer; concurrency exclusion is the scheduler's job.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the persisted record.
func (s *Store) Path() string { return s.path }

// Load returns the persisted state, or a fresh first-run state when no record
// exists yet. A present-but-malformed record yields a *CorruptError.
func (s *Store) Load() (*models.RunState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		log.Printf("no state file at %s, starting fresh", s.path)
		return models.NewRunState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file %s: %w", s.path, err)
	}

	st := models.NewRunState()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, &CorruptError{Path: s.path, Err: err}
	}
	if st.LastCommit == "" && !st.IsFirstRun {
		return nil, &CorruptError{Path: s.path, Err: fmt.Errorf("last_commit absent but is_first_run is false")}
	}
	if st.LastCommit != "" && st.IsFirstRun {
		return nil, &CorruptError{Path: s.path, Err: fmt.Errorf("last_commit present but is_first_run is true")}
	}
	if st.Stats == nil {
		st.Stats = models.NewRunState().Stats
	}
	return st, nil
}

// Commit atomically replaces the persisted record. The new state is written
// to a temporary file in the same directory and renamed into place so a
// reader never observes a partial record.
func (s *Store) Commit(st *models.RunState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".runstate-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	log.Printf("committed state to %s", s.path)
	return nil
}

// Reset overwrites the record with a fresh first-run state. Only reachable
// through the operator-confirmed CLI path.
func (s *Store) Reset() error {
	return s.Commit(models.NewRunState())
}
