// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

// Package texture maintains the presentation texture table and renders
// page regions into textures.
//
// The updater owns the texture id table. Validation failures are reported
// as UpdateError values with stable negative codes, checked in a fixed
// order, so embedding layers can forward them unchanged.
package texture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	pdfrender "github.com/Anglefish/flutter-pdf-render"
	"github.com/Anglefish/flutter-pdf-render/surface"
)

// ErrTextureNotFound is returned by Resize for an unknown texture id.
var ErrTextureNotFound = errors.New("texture: not found")

// Update failure codes. Values are stable; transports forward them to the
// embedding layer as-is.
const (
	// CodeTextureIDMissing means the texture id argument was absent.
	CodeTextureIDMissing = -1

	// CodeTextureNotFound means no texture has the given id.
	CodeTextureNotFound = -2

	// CodeDocumentIDMissing means the document id argument was absent.
	CodeDocumentIDMissing = -3

	// CodeDocumentNotFound means no open document has the given id.
	CodeDocumentNotFound = -4

	// CodePageNumberMissing means the page number argument was absent.
	CodePageNumberMissing = -5

	// CodePageOutOfRange means the page number is outside 1..pageCount.
	CodePageOutOfRange = -6

	// CodeInvalidDimensions means the update width or height is not
	// positive.
	CodeInvalidDimensions = -7
)

// UpdateError is a coded texture update failure.
type UpdateError struct {
	Code int
}

func (e *UpdateError) Error() string {
	switch e.Code {
	case CodeTextureIDMissing:
		return "texture: texture id missing"
	case CodeTextureNotFound:
		return "texture: texture not found"
	case CodeDocumentIDMissing:
		return "texture: document id missing"
	case CodeDocumentNotFound:
		return "texture: document not found"
	case CodePageNumberMissing:
		return "texture: page number missing"
	case CodePageOutOfRange:
		return "texture: page number out of range"
	case CodeInvalidDimensions:
		return "texture: width and height must be positive"
	}
	return fmt.Sprintf("texture: update failed (code %d)", e.Code)
}

// UpdateRequest describes one texture update.
//
// TexID, DocID and PageNumber are pointers so an absent argument can be
// told apart from a zero value; each absence has its own failure code.
type UpdateRequest struct {
	// TexID is the target texture id.
	TexID *int64

	// DocID is the source document id.
	DocID *pdfrender.DocumentID

	// PageNumber is the 1-based page number.
	PageNumber *int

	// Width and Height are the update region dimensions in pixels. Both
	// must be positive.
	Width  int
	Height int

	// SrcX and SrcY are the region origin on the scaled page.
	SrcX int
	SrcY int

	// DestX and DestY position the region inside the texture.
	DestX int
	DestY int

	// FullWidth and FullHeight are the scaled size of the whole page.
	// Zero means the page's native size, so content renders at scale 1.
	FullWidth  int
	FullHeight int

	// TexWidth and TexHeight, when both positive, resize the texture
	// before the update.
	TexWidth  int
	TexHeight int

	// BackgroundFill fills the region with opaque white before rendering.
	BackgroundFill bool
}

// Updater renders page regions into presentation textures.
//
// Safe for concurrent use. Updates to the same texture are serialized by
// the texture's own lock.
type Updater struct {
	registry *pdfrender.Registry
	provider surface.Provider

	mu       sync.RWMutex
	textures map[int64]surface.Texture
}

// NewUpdater creates an updater backed by the given registry and surface
// provider.
func NewUpdater(registry *pdfrender.Registry, provider surface.Provider) *Updater {
	return &Updater{
		registry: registry,
		provider: provider,
		textures: make(map[int64]surface.Texture),
	}
}

// Alloc creates a new texture and returns its id.
func (u *Updater) Alloc() (int64, error) {
	tex, err := u.provider.CreateTexture()
	if err != nil {
		return 0, fmt.Errorf("texture: alloc: %w", err)
	}
	u.mu.Lock()
	u.textures[tex.ID()] = tex
	u.mu.Unlock()

	pdfrender.Logger().Debug("texture allocated", "texId", tex.ID())
	return tex.ID(), nil
}

// Release destroys a texture and removes it from the table. Releasing an
// unknown id is a no-op.
func (u *Updater) Release(texID int64) error {
	u.mu.Lock()
	tex, ok := u.textures[texID]
	if ok {
		delete(u.textures, texID)
	}
	u.mu.Unlock()

	if !ok {
		pdfrender.Logger().Warn("release of unknown texture", "texId", texID)
		return nil
	}
	if err := tex.Release(); err != nil {
		return fmt.Errorf("texture: release: %w", err)
	}
	return nil
}

// Resize replaces the backing store of a texture.
func (u *Updater) Resize(texID int64, width, height int) error {
	u.mu.RLock()
	tex, ok := u.textures[texID]
	u.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrTextureNotFound, texID)
	}
	if err := tex.Resize(width, height); err != nil {
		return fmt.Errorf("texture: resize: %w", err)
	}
	return nil
}

// Texture returns the texture registered under texID, so the embedding
// layer can hand it to its compositor.
func (u *Updater) Texture(texID int64) (surface.Texture, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tex, ok := u.textures[texID]
	return tex, ok
}

// Len returns the number of live textures.
func (u *Updater) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.textures)
}

// Close releases all textures. The provider itself is not closed; it
// belongs to the caller.
func (u *Updater) Close() error {
	u.mu.Lock()
	textures := u.textures
	u.textures = make(map[int64]surface.Texture)
	u.mu.Unlock()

	for id, tex := range textures {
		if err := tex.Release(); err != nil {
			pdfrender.Logger().Warn("error releasing texture", "texId", id, "error", err)
		}
	}
	return nil
}

// Update renders a page region into a texture.
//
// Arguments are validated in a fixed order and the first failure wins:
// texture id present, texture exists, document id present, document open,
// page number present, page in range, region dimensions positive. Coded
// failures are returned as *UpdateError.
//
// Once the texture's drawable is acquired it is presented on every path,
// including render failures, so the texture is never left locked.
func (u *Updater) Update(req UpdateRequest) error {
	if req.TexID == nil {
		return &UpdateError{Code: CodeTextureIDMissing}
	}
	u.mu.RLock()
	tex, ok := u.textures[*req.TexID]
	u.mu.RUnlock()
	if !ok {
		return &UpdateError{Code: CodeTextureNotFound}
	}
	if req.DocID == nil {
		return &UpdateError{Code: CodeDocumentIDMissing}
	}
	info, err := u.registry.Info(*req.DocID)
	if err != nil {
		return &UpdateError{Code: CodeDocumentNotFound}
	}
	if req.PageNumber == nil {
		return &UpdateError{Code: CodePageNumberMissing}
	}
	if *req.PageNumber < 1 || *req.PageNumber > info.PageCount {
		return &UpdateError{Code: CodePageOutOfRange}
	}
	if req.Width <= 0 || req.Height <= 0 {
		return &UpdateError{Code: CodeInvalidDimensions}
	}

	if req.TexWidth > 0 && req.TexHeight > 0 {
		if err := tex.Resize(req.TexWidth, req.TexHeight); err != nil {
			return fmt.Errorf("texture: resize before update: %w", err)
		}
	}

	target := pdfrender.NewPixmap(req.Width, req.Height)
	if req.BackgroundFill {
		target.Clear(pdfrender.White)
	}

	d, err := tex.Lock()
	if err != nil {
		return fmt.Errorf("texture: lock: %w", err)
	}
	defer func() { _ = d.Present() }()

	err = u.registry.WithPage(*req.DocID, *req.PageNumber, func(page pdfrender.Page) error {
		pageW, pageH := page.Size()
		fullW := float64(req.FullWidth)
		if req.FullWidth <= 0 {
			fullW = pageW
		}
		fullH := float64(req.FullHeight)
		if req.FullHeight <= 0 {
			fullH = pageH
		}
		m := pdfrender.TileTransform(float64(req.SrcX), float64(req.SrcY), fullW, fullH, pageW, pageH)
		return page.Render(target, m, pdfrender.RenderModeDisplay)
	})
	if err != nil {
		// The document may have closed between validation and render.
		switch {
		case errors.Is(err, pdfrender.ErrDocumentNotFound):
			return &UpdateError{Code: CodeDocumentNotFound}
		case errors.Is(err, pdfrender.ErrPageOutOfRange):
			return &UpdateError{Code: CodePageOutOfRange}
		}
		return fmt.Errorf("texture: render page: %w", err)
	}

	d.Draw(target.RGBAView(), image.Pt(req.DestX, req.DestY))

	pdfrender.Logger().Debug("texture updated",
		"texId", *req.TexID,
		"docId", *req.DocID,
		"pageNumber", *req.PageNumber,
		"width", req.Width,
		"height", req.Height)
	return nil
}
