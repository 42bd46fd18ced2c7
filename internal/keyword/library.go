// Package keyword maps free-text action phrases to automation keywords.
// Mappings live in a single JSON library file that doubles as a cache:
// resolutions already in the library never hit the language model.
package keyword

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Entry is one resolved action-to-keyword mapping.
type Entry struct {
	Keyword    string  `json:"keyword"`
	Confidence float64 `json:"confidence"`
}

// Library is the full persisted state: action phrase -> entry. Keys are
// exact and case-sensitive; no normalization is applied.
type Library map[string]Entry

// Store loads and persists a Library at a configured path. An empty path
// disables persistence: Load yields an empty library and Save reports
// failure without touching the filesystem.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a store for the given library path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the configured library path ("" when persistence is off).
func (s *Store) Path() string {
	return s.path
}

// Load reads the library from disk. It never fails outward: an unset path,
// a missing file, or corrupted content all degrade to an empty library.
// Corruption is logged since it silently discards prior entries.
func (s *Store) Load() Library {
	if s.path == "" {
		return Library{}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("failed to create keyword library directory",
			zap.String("path", s.path), zap.Error(err))
		return Library{}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read keyword library, starting fresh",
				zap.String("path", s.path), zap.Error(err))
		}
		return Library{}
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		s.logger.Warn("keyword library is malformed, starting fresh",
			zap.String("path", s.path), zap.Error(err))
		return Library{}
	}
	if lib == nil {
		lib = Library{}
	}

	return lib
}

// Save overwrites the library file with the full serialized library.
// Returns false on an unset path or any I/O failure; callers must check
// the result to know whether a mutation was durably recorded.
func (s *Store) Save(lib Library) bool {
	if s.path == "" {
		return false
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("failed to create keyword library directory",
			zap.String("path", s.path), zap.Error(err))
		return false
	}

	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		s.logger.Warn("failed to marshal keyword library", zap.Error(err))
		return false
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Warn("failed to write keyword library",
			zap.String("path", s.path), zap.Error(err))
		return false
	}

	return true
}
