package texture

import (
	"context"
	"fmt"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"parallax-renderer/internal/logging"
	"parallax-renderer/internal/raster"
)

// Resolver resolves a texture name to a decoded image.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if the texture is
// unknown or failed to decode; failures are logged once.
func (c *Cache) Resolve(name string) *image.NRGBA {
	img, err := c.load(name)
	if err != nil {
		return nil
	}
	return img
}

// Sampler returns a bilinear sampler for the named texture, or fallback when
// it cannot be resolved.
func (c *Cache) Sampler(name string, fallback raster.Sampler) raster.Sampler {
	if s := raster.NewTextureSampler(c.Resolve(name)); s != nil {
		return s
	}
	return fallback
}

func (c *Cache) load(name string) (*image.NRGBA, error) {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		logging.Logger().Warn("texture: not found", "name", name)
		return nil, fmt.Errorf("texture: %q not in index", name)
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := Load(path)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	c.mu.Unlock()

	if err != nil {
		logging.Logger().Warn("texture: load failed", "path", path, "err", err)
	} else {
		logging.Logger().Debug("texture: loaded", "path", path,
			"width", img.Rect.Dx(), "height", img.Rect.Dy())
	}
	return img, err
}

// Preload decodes the named textures with at most limit concurrent loads
// (limit <= 0 means unlimited) and returns the first error encountered.
// Textures loaded before a failure stay cached.
func (c *Cache) Preload(ctx context.Context, names []string, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.load(name)
			return err
		})
	}
	return g.Wait()
}

// Len returns the number of cached entries, including failed ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
