// Package state persists the set of installed skills and the last registry
// sync time in a single JSON file. The file is read whole and rewritten
// whole on every mutation; concurrent writers are last-writer-wins and must
// be serialized by the caller if that matters.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Record tracks one installed skill, keyed by slug in the state file.
type Record struct {
	Version     string `json:"version"`
	InstalledAt int64  `json:"installed_at"` // epoch seconds
	Source      string `json:"source"`       // registry URL the skill came from
	Name        string `json:"name"`
}

type stateFile struct {
	Installed map[string]Record `json:"installed"`
	LastSync  int64             `json:"last_sync"` // epoch seconds
}

// Store manages the local state file.
type Store struct {
	path string
	data *stateFile
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the state file from disk. A missing file yields empty state.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = emptyState()
			return nil
		}
		return err
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Installed == nil {
		f.Installed = make(map[string]Record)
	}
	s.data = &f
	return nil
}

// Save rewrites the state file.
func (s *Store) Save() error {
	if s.data == nil {
		s.data = emptyState()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Put records an installed skill and persists.
func (s *Store) Put(slug string, rec Record) error {
	s.ensure()
	s.data.Installed[slug] = rec
	return s.Save()
}

// Remove drops a skill's tracking entry and persists. Removing an unknown
// slug is a no-op.
func (s *Store) Remove(slug string) error {
	s.ensure()
	delete(s.data.Installed, slug)
	return s.Save()
}

// Get returns the record for a slug.
func (s *Store) Get(slug string) (Record, bool) {
	s.ensure()
	rec, ok := s.data.Installed[slug]
	return rec, ok
}

// List returns all tracked installs.
func (s *Store) List() map[string]Record {
	s.ensure()
	return s.data.Installed
}

// RecordSync stamps the last successful index fetch and persists.
func (s *Store) RecordSync(t time.Time) error {
	s.ensure()
	s.data.LastSync = t.Unix()
	return s.Save()
}

// LastSync returns the last successful index fetch time; zero when never
// synced.
func (s *Store) LastSync() time.Time {
	s.ensure()
	if s.data.LastSync == 0 {
		return time.Time{}
	}
	return time.Unix(s.data.LastSync, 0)
}

func (s *Store) ensure() {
	if s.data == nil {
		s.data = emptyState()
	}
}

func emptyState() *stateFile {
	return &stateFile{Installed: make(map[string]Record)}
}
