package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// Load reads an image file and returns it as NRGBA, the only pixel layout
// the conversion engine accepts. Supported formats are PNG, JPEG, GIF, TIFF,
// and BMP.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return imaging.Clone(img), nil
}

// Save writes an image to path. The encoding format follows the file
// extension; JPEG output flattens alpha, so transparent results should go to
// PNG.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Supported reports whether a file name carries an extension Load can
// decode. Detection is by extension, not contents.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}

// Cache provides thread-safe caching of loaded images to avoid redundant
// disk reads when the same source is converted under several settings.
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Batch runs over large directories should Evict each source once
// its conversions finish.
type Cache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

// NewCache creates and initializes a new empty image cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]*image.NRGBA)}
}

// Load retrieves an image from the cache or loads it from disk if not
// cached. The image is cached using the exact path string provided;
// different paths to the same file result in separate cache entries.
//
// Callers must not mutate the returned pixels; the same backing array is
// handed to every caller of the same path.
func (c *Cache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes a specific image from the cache by its path. If the path is
// not in the cache, this method does nothing.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}
