// Package index persists the vector index as a single JSON blob on disk.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bankdocs/internal/domain"
)

// Store reads and writes the index blob at a fixed path. Existence of
// the file is the sole signal that the index has been built.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Exists reports whether an index blob is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decodes the stored index. A blob that cannot be decoded
// into units of uniform dimensionality fails with domain.ErrCorruptIndex.
func (s *Store) Load() (*domain.Index, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}

	var idx domain.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrCorruptIndex, s.path, err)
	}
	if err := validate(&idx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptIndex, err)
	}
	return &idx, nil
}

// Save writes the index to disk, replacing any previous blob. The blob is
// written to a temporary file and renamed so a concurrent Load never
// observes a partial write.
func (s *Store) Save(idx *domain.Index) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace index file: %w", err)
	}
	return nil
}

// Clear deletes the stored blob. Clearing an absent blob is a no-op.
// No backup is kept: the next session must rebuild from the documents.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove index file: %w", err)
	}
	return nil
}

// Path returns the blob location.
func (s *Store) Path() string { return s.path }

func validate(idx *domain.Index) error {
	if len(idx.Units) == 0 {
		return fmt.Errorf("no units")
	}
	dim := len(idx.Units[0].Vector)
	if dim == 0 {
		return fmt.Errorf("unit 0 has no vector")
	}
	for i, u := range idx.Units {
		if len(u.Vector) != dim {
			return fmt.Errorf("unit %d has dimension %d, want %d", i, len(u.Vector), dim)
		}
	}
	return nil
}
