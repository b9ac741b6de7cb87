package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State remembers which log versions a previous scan already summarised so
// a rerun only reports new or changed files.
type State struct {
	StartedAt     time.Time         `json:"started_at"`
	LastScannedAt time.Time         `json:"last_scanned_at"`
	Processed     map[string]string `json:"processed"` // path -> content digest
	Errors        []string          `json:"errors"`

	path string // not serialized
}

// LoadState reads the state at path, or starts a fresh one when the file
// does not exist. An empty path yields an in-memory state that Save skips.
func LoadState(path string) (*State, error) {
	fresh := &State{
		StartedAt: time.Now().UTC(),
		Processed: map[string]string{},
		path:      expandHome(path),
	}
	if path == "" {
		return fresh, nil
	}

	data, err := os.ReadFile(fresh.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fresh, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	if s.Processed == nil {
		s.Processed = map[string]string{}
	}
	s.path = fresh.path
	return &s, nil
}

// Save persists the state to disk.
func (s *State) Save() error {
	s.LastScannedAt = time.Now().UTC()
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return os.WriteFile(s.path, data, 0o644)
}

// IsProcessed reports whether this exact version of path was seen before.
func (s *State) IsProcessed(path, digest string) bool {
	return s.Processed[path] == digest
}

func (s *State) MarkProcessed(path, digest string) {
	s.Processed[path] = digest
}

func (s *State) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
