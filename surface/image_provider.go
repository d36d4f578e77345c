// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// ImageProvider is a CPU-backed Provider. Textures are plain *image.RGBA
// buffers, so it works headless and is the provider of choice in tests.
type ImageProvider struct {
	nextID atomic.Int64
}

var _ Provider = (*ImageProvider)(nil)

// NewImageProvider creates a CPU-backed provider. Texture ids start at 1.
func NewImageProvider() *ImageProvider {
	p := &ImageProvider{}
	p.nextID.Store(1)
	return p
}

// CreateTexture allocates a new texture with no backing store.
func (p *ImageProvider) CreateTexture() (Texture, error) {
	return &ImageTexture{id: p.nextID.Add(1) - 1}, nil
}

// Close releases provider resources. For the CPU provider this is a no-op.
func (p *ImageProvider) Close() error { return nil }

// ImageTexture is a CPU-backed texture over *image.RGBA.
type ImageTexture struct {
	id int64

	mu     sync.Mutex
	img    *image.RGBA
	locked bool

	released atomic.Bool
}

var _ Texture = (*ImageTexture)(nil)

// ID returns the provider-assigned texture id.
func (t *ImageTexture) ID() int64 { return t.id }

// Size returns the backing store dimensions, or zeros before the first
// Resize.
func (t *ImageTexture) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize replaces the backing store with a fresh width x height buffer.
func (t *ImageTexture) Resize(width, height int) error {
	if t.released.Load() {
		return ErrTextureReleased
	}
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	t.mu.Lock()
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
	t.mu.Unlock()
	return nil
}

// Lock acquires the texture's drawable for one update.
func (t *ImageTexture) Lock() (Drawable, error) {
	if t.released.Load() {
		return nil, ErrTextureReleased
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locked {
		return nil, ErrTextureLocked
	}
	t.locked = true
	return &imageDrawable{t: t}, nil
}

// Release drops the backing store. Safe to call more than once.
func (t *ImageTexture) Release() error {
	if t.released.Swap(true) {
		return nil
	}
	t.mu.Lock()
	t.img = nil
	t.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the backing store, or nil before the first
// Resize. Modifications to the returned image do not affect the texture.
func (t *ImageTexture) Snapshot() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img == nil {
		return nil
	}
	out := image.NewRGBA(t.img.Bounds())
	copy(out.Pix, t.img.Pix)
	return out
}

// imageDrawable writes through to the texture's backing image. It is used
// from a single goroutine between Lock and Present.
type imageDrawable struct {
	t    *ImageTexture
	done bool
}

var _ Drawable = (*imageDrawable)(nil)

// Draw blits src with its top-left corner at the given point.
func (d *imageDrawable) Draw(src *image.RGBA, at image.Point) {
	if d.done || src == nil {
		return
	}
	t := d.t
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img == nil {
		return
	}
	r := image.Rect(at.X, at.Y, at.X+src.Bounds().Dx(), at.Y+src.Bounds().Dy())
	draw.Draw(t.img, r, src, src.Bounds().Min, draw.Src)
}

// Present unlocks the texture. Calls after the first are no-ops.
func (d *imageDrawable) Present() error {
	if d.done {
		return nil
	}
	d.done = true
	t := d.t
	t.mu.Lock()
	t.locked = false
	t.mu.Unlock()
	return nil
}
