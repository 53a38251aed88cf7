package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs as plain files under a single root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create storage directory: %v", ErrStorage, err)
	}

	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(_ context.Context, objectName string, data []byte) (string, error) {
	path := filepath.Join(s.root, objectName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write %s: %v", ErrStorage, objectName, err)
	}

	return path, nil
}

func (s *LocalStore) Fetch(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrStorage, path, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to delete %s: %v", ErrStorage, path, err)
	}
	return nil
}
