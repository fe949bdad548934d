// Package storage persists uploaded binary files under generated names.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves bytes under a generated name and deletes files by the path it
// previously returned.
type Store interface {
	Save(content []byte, ext string) (string, error)
	Remove(path string) error
}

// DiskStore implements Store on the local filesystem, rooted at a single
// directory. Returned paths are relative to that root.
type DiskStore struct {
	root string
}

// NewDiskStore creates a DiskStore rooted at root.
func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Save writes content under images/<uuid><ext> and returns the relative path.
func (s *DiskStore) Save(content []byte, ext string) (string, error) {
	name := uuid.New().String() + ext
	rel := filepath.ToSlash(filepath.Join("images", name))
	abs := filepath.Join(s.root, "images", name)

	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(abs, content, 0o600); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return rel, nil
}

// Remove deletes a previously stored file. Paths escaping the store root are
// rejected.
func (s *DiskStore) Remove(path string) error {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return fmt.Errorf("invalid storage path %q", path)
	}
	return os.Remove(filepath.Join(s.root, cleaned))
}
