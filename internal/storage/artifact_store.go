package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactStore persists rendered report artifacts as named files under a
// single directory. Retention and serving policy live elsewhere; this only
// writes blobs and reads them back by name.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates the store, creating its directory if needed
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// Save writes a named artifact and returns its location
func (s *ArtifactStore) Save(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	return path, nil
}

// Read returns the bytes of a named artifact
func (s *ArtifactStore) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}
	return data, nil
}

// Path returns the location a named artifact would be stored at
func (s *ArtifactStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}
