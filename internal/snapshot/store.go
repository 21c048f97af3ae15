package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/betbot/copycat/pkg/logger"
)

// Store persists the asset -> size map between runs in a single JSON file.
// The file is the sole durable state of the watcher.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted mapping. An absent or unparsable file means
// "no prior state" and yields an empty map, never an error.
func (s *Store) Load() map[string]float64 {
	out := make(map[string]float64)

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("[snapshot] read %s failed: %v, starting from empty state", s.path, err)
		}
		return out
	}
	if len(b) == 0 {
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil {
		logger.Warnf("[snapshot] parse %s failed: %v, starting from empty state", s.path, err)
		return make(map[string]float64)
	}
	return out
}

// Save overwrites the backing file with the given mapping. The write goes
// through a temp file and rename so a crash mid-write cannot corrupt a
// subsequent successful write.
func (s *Store) Save(state map[string]float64) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
