package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps blobs on the local filesystem under a single upload
// directory and serves them through the /uploads/ static route.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the blob under a random name that keeps the original
// extension. Uploads with colliding filenames never overwrite each other.
func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + filepath.Ext(filename)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return "/uploads/" + name, nil
}

// URL returns the stored path unchanged; local paths are already
// fetchable via the static route
func (s *LocalStore) URL(_ context.Context, path string) (string, error) {
	return path, nil
}

// Dir returns the directory backing the store
func (s *LocalStore) Dir() string {
	return s.dir
}
