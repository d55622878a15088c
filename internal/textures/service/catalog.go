package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"planviewer/internal/textures/models"
)

// ============================================================
// Catalog
// ============================================================

// Catalog is the in-memory handle -> URL map the scene builder resolves
// style textures through. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	baseURL string
	urls    map[string]string
}

func NewCatalog(baseURL string) *Catalog {
	return &Catalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		urls:    make(map[string]string),
	}
}

// URL returns the public address of a stored texture file.
func (c *Catalog) URL(filename string) string {
	return c.baseURL + "/textures/" + url.PathEscape(filename)
}

// Put registers t and returns its URL.
func (c *Catalog) Put(t models.Texture) string {
	u := c.URL(t.Filename)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls[t.Handle] = u
	return u
}

func (c *Catalog) ResolveTexture(handle string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.urls[handle]
	return u, ok
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.urls)
}

// Load replaces the catalog content with every texture in store.
func (c *Catalog) Load(ctx context.Context, store Store) error {
	list, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list textures: %w", err)
	}

	urls := make(map[string]string, len(list))
	for _, t := range list {
		urls[t.Handle] = c.URL(t.Filename)
	}

	c.mu.Lock()
	c.urls = urls
	c.mu.Unlock()
	return nil
}
