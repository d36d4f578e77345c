// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image"
)

// Package errors.
var (
	// ErrTextureReleased is returned when a texture is used after Release.
	ErrTextureReleased = errors.New("surface: texture released")

	// ErrTextureLocked is returned by Lock while another drawable is
	// outstanding.
	ErrTextureLocked = errors.New("surface: texture already locked")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("surface: width and height must be positive")
)

// Provider creates presentation textures.
//
// Implementations may back textures with CPU memory or GPU resources.
// Providers are safe for concurrent use.
type Provider interface {
	// CreateTexture allocates a new texture with no backing store.
	// The texture id is positive and unique within the provider.
	// Call Resize before the first update to give it dimensions.
	CreateTexture() (Texture, error)

	// Close releases provider-level resources. Textures created by the
	// provider must be released before Close.
	Close() error
}

// Texture is one presentation texture.
//
// A texture with no backing store (never resized) accepts Lock and
// Present, but draws are dropped.
type Texture interface {
	// ID returns the provider-assigned texture id.
	ID() int64

	// Size returns the backing store dimensions in pixels.
	// Both are zero until the first Resize.
	Size() (width, height int)

	// Resize replaces the backing store. Existing content is discarded.
	Resize(width, height int) error

	// Lock acquires the texture's drawable for one update. Present must
	// be called on every path after a successful Lock, including error
	// paths, or the texture stays locked.
	Lock() (Drawable, error)

	// Release destroys the backing store and invalidates the texture.
	// Release is idempotent; multiple calls are safe.
	Release() error
}

// Drawable is a scoped handle to a texture's backing store.
type Drawable interface {
	// Draw blits src into the backing store with its top-left corner at
	// the given point. Pixels outside the store are clipped.
	Draw(src *image.RGBA, at image.Point)

	// Present commits the drawn content and unlocks the texture.
	// Present is idempotent; calls after the first are no-ops.
	Present() error
}
