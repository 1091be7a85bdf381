package texture

import (
	"image"
	"sync"
)

// Resolver maps a name to a decoded texture, or nil.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache over an Index. Names that do
// not resolve fall back to Fallback when it is set.
type Cache struct {
	Fallback string

	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
}

// NewCache creates a cache backed by index.
func NewCache(index *Index, fallback string) *Cache {
	return &Cache{
		Fallback: fallback,
		items:    make(map[string]*image.NRGBA),
		index:    index,
	}
}

// Resolve loads and caches a texture by name. Failed loads are cached as nil.
func (c *Cache) Resolve(name string) *image.NRGBA {
	path, ok := c.index.ResolvePath(name)
	if !ok && c.Fallback != "" {
		path, ok = c.index.ResolvePath(c.Fallback)
	}
	if !ok {
		return nil
	}

	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	img, _ = LoadTexture(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.items[path]; exists {
		return cached
	}
	c.items[path] = img
	return img
}
