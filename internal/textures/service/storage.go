package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage keeps texture files under <root>/textures.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) TexturesDir() string {
	return filepath.Join(s.root, "textures")
}

// TexturePath returns where filename lives. Only the base name is used.
func (s *FileStorage) TexturePath(filename string) string {
	return filepath.Join(s.TexturesDir(), filepath.Base(filename))
}

func (s *FileStorage) EnsureDir() error {
	if err := os.MkdirAll(s.TexturesDir(), 0o755); err != nil {
		return fmt.Errorf("mkdir textures dir: %w", err)
	}
	return nil
}

func (s *FileStorage) Save(filename string, data []byte) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	return os.WriteFile(s.TexturePath(filename), data, 0o644)
}
