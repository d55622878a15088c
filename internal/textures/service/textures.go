package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"planviewer/internal/textures/models"
	"planviewer/internal/textures/repository"
)

// ============================================================
// Texture Service
// ============================================================

var ErrInvalidHandle = errors.New("texture handle must be 1-100 characters of a-z, 0-9, '-' or '_'")

var handlePattern = regexp.MustCompile(`^[a-z0-9_-]{1,100}$`)

// Store is the persistence the service needs.
type Store interface {
	List(ctx context.Context) ([]models.Texture, error)
	GetByHandle(ctx context.Context, handle string) (*models.Texture, error)
	Create(ctx context.Context, t models.Texture) (*models.Texture, bool, error)
}

// Upload is a new texture file submitted under a handle.
type Upload struct {
	Handle      string
	Filename    string
	MimeType    string
	Description string
	Data        []byte
}

type Textures struct {
	store   Store
	files   *FileStorage
	catalog *Catalog
}

func NewTextures(store Store, files *FileStorage, catalog *Catalog) *Textures {
	return &Textures{store: store, files: files, catalog: catalog}
}

func (s *Textures) Catalog() *Catalog {
	return s.catalog
}

// Load fills the catalog from the store.
func (s *Textures) Load(ctx context.Context) error {
	if err := s.catalog.Load(ctx, s.store); err != nil {
		return err
	}
	slog.Info("[TEXTURES] catalog loaded", "count", s.catalog.Len())
	return nil
}

// List returns every texture with its public URL.
func (s *Textures) List(ctx context.Context) ([]models.Texture, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].URL = s.catalog.URL(list[i].Filename)
	}
	return list, nil
}

// Create stores the upload unless the handle already exists, in which case
// the existing texture is returned untouched.
func (s *Textures) Create(ctx context.Context, up Upload) (*models.Texture, bool, error) {
	handle := strings.TrimSpace(up.Handle)
	if !handlePattern.MatchString(handle) {
		return nil, false, ErrInvalidHandle
	}

	existing, err := s.store.GetByHandle(ctx, handle)
	switch {
	case err == nil:
		existing.URL = s.catalog.URL(existing.Filename)
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}

	suffix := strings.ToLower(filepath.Ext(up.Filename))
	if suffix == "" {
		suffix = ".bin"
	}
	filename := handle + suffix
	if err := s.files.Save(filename, up.Data); err != nil {
		return nil, false, fmt.Errorf("save texture file: %w", err)
	}

	t, created, err := s.store.Create(ctx, models.Texture{
		Handle:      handle,
		Filename:    filename,
		Description: up.Description,
		MimeType:    up.MimeType,
	})
	if err != nil {
		return nil, false, err
	}
	t.URL = s.catalog.Put(*t)
	if created {
		slog.Info("[TEXTURES] created", "handle", t.Handle, "file", t.Filename, "bytes", len(up.Data))
	}
	return t, created, nil
}
