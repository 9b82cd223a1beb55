// Package storage is the file-storage collaborator: raw bytes in,
// opaque document handle out. The lifecycle engine only ever sees the
// handle.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/applyforge/applyforge-backend/internal/models"
)

// LocalStore writes uploads to a directory on disk. Swap-out point for
// object storage.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save persists the bytes under a fresh uuid and returns the handle.
func (s *LocalStore) Save(data []byte, originalName string) (models.CVDocument, error) {
	id := uuid.NewString()
	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")

	filename := id
	if ext != "" {
		filename += "." + ext
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return models.CVDocument{}, fmt.Errorf("writing file: %w", err)
	}

	return models.CVDocument{
		ID:        id,
		Name:      originalName,
		Extension: ext,
		Size:      int64(len(data)),
		Path:      path,
	}, nil
}
