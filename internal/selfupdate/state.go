// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// StateFileName is the file the update check state is kept in.
const StateFileName = "update-state.toml"

type (
	// CheckState is what the launcher remembers between update checks.
	CheckState struct {
		LastCheck     time.Time `toml:"last_check"`
		LatestVersion string    `toml:"latest_version,omitempty"`
	}

	// StateStore persists CheckState as TOML.
	StateStore struct {
		path string
	}
)

// NewStateStore creates a store for the state file inside dir.
func NewStateStore(dir string) *StateStore {
	return &StateStore{path: filepath.Join(dir, StateFileName)}
}

// Path returns the state file location.
func (s *StateStore) Path() string { return s.path }

// Load reads the stored state. A missing file yields the zero state.
func (s *StateStore) Load() (CheckState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return CheckState{}, nil
	}
	if err != nil {
		return CheckState{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var st CheckState
	if err := toml.Unmarshal(data, &st); err != nil {
		return CheckState{}, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return st, nil
}

// Save writes st, creating the directory if needed.
func (s *StateStore) Save(st CheckState) error {
	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding update state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.path), err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Due reports whether an automatic check should run at now. A zero or
// negative interval always checks.
func (st CheckState) Due(now time.Time, interval time.Duration) bool {
	if interval <= 0 || st.LastCheck.IsZero() {
		return true
	}
	return !now.Before(st.LastCheck.Add(interval))
}
