package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage resolves read-only assets (fonts) relative to a base directory.
// Absolute paths are used as-is.
type FileStorage interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
	Resolve(path string) string
}

type fileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) FileStorage {
	return &fileStorage{basePath: basePath}
}

func (s *fileStorage) Resolve(path string) string {
	if filepath.IsAbs(path) || s.basePath == "" {
		return path
	}
	return filepath.Join(s.basePath, path)
}

func (s *fileStorage) ReadFile(path string) ([]byte, error) {
	fullPath := s.Resolve(path)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", fullPath)
	}

	return os.ReadFile(fullPath)
}

func (s *fileStorage) Exists(path string) bool {
	_, err := os.Stat(s.Resolve(path))
	return !os.IsNotExist(err)
}
