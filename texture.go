package guitex

import (
	"sync"
	"sync/atomic"
)

// Image wraps the engine texture buffer. The bridge writes Data on flush and
// sets the update flag; the engine clears it when it uploads.
type Image struct {
	Format PixelFormat
	Size   Size
	Data   []byte

	update atomic.Bool
}

// NewImage wraps data, which must hold size.Bytes() bytes in format.
func NewImage(format PixelFormat, size Size, data []byte) *Image {
	return &Image{Format: format, Size: size, Data: data}
}

// SetUpdateNeeded marks the image as changed since the last upload.
func (img *Image) SetUpdateNeeded() {
	img.update.Store(true)
}

// UpdateNeeded reports whether the image changed since the last upload.
func (img *Image) UpdateNeeded() bool {
	return img.update.Load()
}

// TakeUpdate clears the update flag and reports whether it was set.
// Engines call it right before uploading Data.
func (img *Image) TakeUpdate() bool {
	return img.update.Swap(false)
}

// Texture is the engine-side texture handle. Its identity is stable for the
// lifetime of the container; resizes rebind a new Image to it.
type Texture struct {
	mu      sync.RWMutex
	image   *Image
	version uint64
}

// NewTexture creates a texture bound to img.
func NewTexture(img *Image) *Texture {
	return &Texture{image: img, version: 1}
}

// SetImage rebinds the texture to img. Engines compare Version to notice
// that GPU storage must be reallocated.
func (t *Texture) SetImage(img *Image) {
	t.mu.Lock()
	t.image = img
	t.version++
	t.mu.Unlock()
}

// Image returns the bound image.
func (t *Texture) Image() *Image {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.image
}

// Version increases every time SetImage is called.
func (t *Texture) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}
