// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

// Package channel exposes the rendering components as a synchronous
// method-call surface.
//
// Invoke dispatches by method name with loosely-typed arguments, the way
// an embedder's message codec delivers them. Missing or malformed
// arguments yield the operation's null sentinel rather than an error, and
// internal failures are logged and mapped to the operation's failure
// sentinel, so a misbehaving caller can never crash the host.
package channel

import (
	"errors"
	"io/fs"

	pdfrender "github.com/Anglefish/flutter-pdf-render"
	"github.com/Anglefish/flutter-pdf-render/buffer"
	"github.com/Anglefish/flutter-pdf-render/surface"
	"github.com/Anglefish/flutter-pdf-render/texture"
)

// Option configures a Handler.
type Option func(*options)

type options struct {
	engine   pdfrender.Engine
	assets   fs.FS
	provider surface.Provider
}

// WithEngine pins the decode engine instead of using the best registered
// one.
func WithEngine(e pdfrender.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithAssets sets the asset bundle used by open-asset.
func WithAssets(assets fs.FS) Option {
	return func(o *options) { o.assets = assets }
}

// WithProvider sets the surface provider for textures. The caller keeps
// ownership; Close will not close it. Defaults to the CPU-backed
// ImageProvider, which the handler then owns.
func WithProvider(p surface.Provider) Option {
	return func(o *options) { o.provider = p }
}

// Handler is the method-call dispatch shell over the document registry,
// render pipeline, buffer arena and texture updater.
type Handler struct {
	registry *pdfrender.Registry
	pipeline *pdfrender.Pipeline
	buffers  *buffer.Arena
	updater  *texture.Updater

	provider    surface.Provider
	ownProvider bool
	assets      fs.FS
}

// New creates a handler with a fresh registry, arena and texture table.
func New(opts ...Option) *Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	provider := o.provider
	own := false
	if provider == nil {
		provider = surface.NewImageProvider()
		own = true
	}

	var ropts []pdfrender.RegistryOption
	if o.engine != nil {
		ropts = append(ropts, pdfrender.WithEngine(o.engine))
	}
	registry := pdfrender.NewRegistry(ropts...)
	buffers := buffer.NewArena()

	return &Handler{
		registry:    registry,
		pipeline:    pdfrender.NewPipeline(registry, buffers),
		buffers:     buffers,
		updater:     texture.NewUpdater(registry, provider),
		provider:    provider,
		ownProvider: own,
		assets:      o.assets,
	}
}

// Registry returns the document registry behind the handler.
func (h *Handler) Registry() *pdfrender.Registry { return h.registry }

// Buffers returns the buffer arena behind the handler.
func (h *Handler) Buffers() *buffer.Arena { return h.buffers }

// Updater returns the texture updater behind the handler.
func (h *Handler) Updater() *texture.Updater { return h.updater }

// Close releases all documents, buffers and textures. The surface
// provider is closed only when the handler created it.
func (h *Handler) Close() error {
	h.registry.CloseAll()
	err := h.updater.Close()
	h.buffers.Close()
	if h.ownProvider {
		if cerr := h.provider.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Invoke dispatches one method call and returns its result value.
//
// Results follow the call table: open calls return a DocumentInfo or nil,
// doc-info returns a DocumentInfo or -1, open-page returns a PageInfo or
// nil, render returns a *RenderResult, -1 on unknown document or bad
// range, or nil, alloc-texture returns a texture id or -1, resize-texture
// returns 0 or -1, update-texture returns 0 or a negative failure code.
// Destructive calls (close-doc, release-buffer, release-texture) always
// acknowledge with nil. Unknown methods return nil.
func (h *Handler) Invoke(method string, args map[string]any) any {
	switch method {
	case "open-file":
		path, ok := stringArg(args, "filePath")
		if !ok {
			return nil
		}
		info, err := h.registry.OpenFile(path)
		if err != nil {
			pdfrender.Logger().Warn("open-file failed", "filePath", path, "error", err)
			return nil
		}
		return info

	case "open-asset":
		name, ok := stringArg(args, "assetName")
		if !ok {
			return nil
		}
		if h.assets == nil {
			pdfrender.Logger().Warn("open-asset without an asset bundle", "assetName", name)
			return nil
		}
		info, err := h.registry.OpenAsset(h.assets, name)
		if err != nil {
			pdfrender.Logger().Warn("open-asset failed", "assetName", name, "error", err)
			return nil
		}
		return info

	case "open-data":
		data, ok := bytesArg(args, "data")
		if !ok {
			return nil
		}
		info, err := h.registry.OpenData(data)
		if err != nil {
			pdfrender.Logger().Warn("open-data failed", "size", len(data), "error", err)
			return nil
		}
		return info

	case "close-doc":
		if id, ok := int64Arg(args, "docId"); ok {
			h.registry.Close(pdfrender.DocumentID(id))
		}
		return nil

	case "doc-info":
		id, ok := int64Arg(args, "docId")
		if !ok {
			return nil
		}
		info, err := h.registry.Info(pdfrender.DocumentID(id))
		if err != nil {
			return -1
		}
		return info

	case "open-page":
		id, ok := int64Arg(args, "docId")
		if !ok {
			return nil
		}
		pageNumber, ok := intArg(args, "pageNumber")
		if !ok {
			return nil
		}
		pi, err := h.registry.PageInfo(pdfrender.DocumentID(id), pageNumber)
		if err != nil {
			return nil
		}
		return pi

	case "render":
		id, ok := int64Arg(args, "docId")
		if !ok {
			return nil
		}
		pageNumber, ok := intArg(args, "pageNumber")
		if !ok {
			return nil
		}
		req := pdfrender.RenderRequest{
			DocID:          pdfrender.DocumentID(id),
			PageNumber:     pageNumber,
			X:              intOr(args, "x", 0),
			Y:              intOr(args, "y", 0),
			Width:          intOr(args, "width", 0),
			Height:         intOr(args, "height", 0),
			FullWidth:      intOr(args, "fullWidth", 0),
			FullHeight:     intOr(args, "fullHeight", 0),
			BackgroundFill: boolOr(args, "backgroundFill", true),
		}
		res, err := h.pipeline.Render(req)
		if err != nil {
			if errors.Is(err, pdfrender.ErrDocumentNotFound) ||
				errors.Is(err, pdfrender.ErrPageOutOfRange) ||
				errors.Is(err, pdfrender.ErrInvalidDimensions) {
				return -1
			}
			pdfrender.Logger().Warn("render failed", "docId", id, "pageNumber", pageNumber, "error", err)
			return nil
		}
		return res

	case "release-buffer":
		if addr, ok := int64Arg(args, "address"); ok {
			h.buffers.Release(uintptr(addr))
		}
		return nil

	case "alloc-texture":
		id, err := h.updater.Alloc()
		if err != nil {
			pdfrender.Logger().Warn("alloc-texture failed", "error", err)
			return -1
		}
		return id

	case "release-texture":
		if id, ok := int64Arg(args, "texId"); ok {
			if err := h.updater.Release(id); err != nil {
				pdfrender.Logger().Warn("release-texture failed", "texId", id, "error", err)
			}
		}
		return nil

	case "resize-texture":
		id, ok := int64Arg(args, "texId")
		if !ok {
			return -1
		}
		width, ok := intArg(args, "width")
		if !ok {
			return -1
		}
		height, ok := intArg(args, "height")
		if !ok {
			return -1
		}
		if err := h.updater.Resize(id, width, height); err != nil {
			return -1
		}
		return 0

	case "update-texture":
		req := texture.UpdateRequest{
			Width:          intOr(args, "width", 0),
			Height:         intOr(args, "height", 0),
			SrcX:           intOr(args, "srcX", 0),
			SrcY:           intOr(args, "srcY", 0),
			DestX:          intOr(args, "destX", 0),
			DestY:          intOr(args, "destY", 0),
			FullWidth:      intOr(args, "fullWidth", 0),
			FullHeight:     intOr(args, "fullHeight", 0),
			TexWidth:       intOr(args, "texWidth", 0),
			TexHeight:      intOr(args, "texHeight", 0),
			BackgroundFill: boolOr(args, "backgroundFill", true),
		}
		if id, ok := int64Arg(args, "texId"); ok {
			req.TexID = &id
		}
		if id, ok := int64Arg(args, "docId"); ok {
			docID := pdfrender.DocumentID(id)
			req.DocID = &docID
		}
		if n, ok := intArg(args, "pageNumber"); ok {
			req.PageNumber = &n
		}
		err := h.updater.Update(req)
		if err == nil {
			return 0
		}
		var ue *texture.UpdateError
		if errors.As(err, &ue) {
			return ue.Code
		}
		pdfrender.Logger().Warn("update-texture failed", "error", err)
		return nil
	}

	pdfrender.Logger().Warn("unknown method", "method", method)
	return nil
}

// stringArg extracts a string argument.
func stringArg(args map[string]any, key string) (string, bool) {
	s, ok := args[key].(string)
	return s, ok
}

// bytesArg extracts a byte-slice argument.
func bytesArg(args map[string]any, key string) ([]byte, bool) {
	b, ok := args[key].([]byte)
	return b, ok
}

// intArg extracts an integer argument. Codecs deliver numbers in whatever
// width suits them, so all common numeric forms are accepted.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// int64Arg extracts a 64-bit integer argument.
func int64Arg(args map[string]any, key string) (int64, bool) {
	switch v := args[key].(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// boolArg extracts a boolean argument.
func boolArg(args map[string]any, key string) (bool, bool) {
	b, ok := args[key].(bool)
	return b, ok
}

// intOr returns an integer argument or def when absent or malformed.
func intOr(args map[string]any, key string, def int) int {
	if v, ok := intArg(args, key); ok {
		return v
	}
	return def
}

// boolOr returns a boolean argument or def when absent or malformed.
func boolOr(args map[string]any, key string, def bool) bool {
	if v, ok := boolArg(args, key); ok {
		return v
	}
	return def
}
