// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/types"
	"golang.org/x/image/draw"

	"github.com/Anglefish/flutter-pdf-render/surface"
)

// texture is one GPU texture plus a CPU staging image. Draw writes into
// the staging image; Present uploads the whole image in one WriteTexture.
type texture struct {
	provider *Provider
	id       int64

	mu      sync.Mutex
	tex     hal.Texture
	staging *image.RGBA
	width   int
	height  int
	locked  bool

	released atomic.Bool
}

var _ surface.Texture = (*texture)(nil)

// ID returns the provider-assigned texture id.
func (t *texture) ID() int64 { return t.id }

// Size returns the backing store dimensions, or zeros before the first
// Resize.
func (t *texture) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Resize destroys the current GPU texture and creates a fresh one together
// with a matching staging image.
func (t *texture) Resize(width, height int) error {
	if t.released.Load() {
		return surface.ErrTextureReleased
	}
	if width <= 0 || height <= 0 {
		return surface.ErrInvalidDimensions
	}

	desc := &hal.TextureDescriptor{
		Label: "pdfrender",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        types.TextureFormatRGBA8Unorm,
		Usage:         types.TextureUsageCopySrc | types.TextureUsageCopyDst | types.TextureUsageStorageBinding,
	}
	newTex, err := t.provider.device.CreateTexture(desc)
	if err != nil {
		return fmt.Errorf("wgpu: create texture: %w", err)
	}

	t.mu.Lock()
	old := t.tex
	t.tex = newTex
	t.width, t.height = width, height
	t.staging = image.NewRGBA(image.Rect(0, 0, width, height))
	t.mu.Unlock()

	if old != nil {
		t.provider.device.DestroyTexture(old)
	}
	return nil
}

// Lock acquires the texture's drawable for one update.
func (t *texture) Lock() (surface.Drawable, error) {
	if t.released.Load() {
		return nil, surface.ErrTextureReleased
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locked {
		return nil, surface.ErrTextureLocked
	}
	t.locked = true
	return &drawable{t: t}, nil
}

// Release destroys the GPU texture. Safe to call more than once.
func (t *texture) Release() error {
	if t.released.Swap(true) {
		return nil
	}
	t.mu.Lock()
	tex := t.tex
	t.tex = nil
	t.staging = nil
	t.mu.Unlock()
	if tex != nil {
		t.provider.device.DestroyTexture(tex)
	}
	return nil
}

// drawable stages pixels on the CPU and uploads them on Present.
type drawable struct {
	t    *texture
	done bool
}

var _ surface.Drawable = (*drawable)(nil)

// Draw blits src into the staging image with its top-left corner at the
// given point.
func (d *drawable) Draw(src *image.RGBA, at image.Point) {
	if d.done || src == nil {
		return
	}
	t := d.t
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.staging == nil {
		return
	}
	r := image.Rect(at.X, at.Y, at.X+src.Bounds().Dx(), at.Y+src.Bounds().Dy())
	draw.Draw(t.staging, r, src, src.Bounds().Min, draw.Src)
}

// Present uploads the staging image and unlocks the texture. It always
// unlocks, even when the texture was released mid-update.
func (d *drawable) Present() error {
	if d.done {
		return nil
	}
	d.done = true

	t := d.t
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locked = false

	if t.tex == nil || t.staging == nil {
		return nil
	}

	dst := &hal.ImageCopyTexture{
		Texture:  t.tex,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   types.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(t.width * 4),
		RowsPerImage: uint32(t.height),
	}
	size := &hal.Extent3D{
		Width:              uint32(t.width),
		Height:             uint32(t.height),
		DepthOrArrayLayers: 1,
	}
	t.provider.queue.WriteTexture(dst, t.staging.Pix, layout, size)
	return nil
}
