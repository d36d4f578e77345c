// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

// Package surface provides the presentation-texture abstraction used to
// hand rendered pages to a host compositor.
//
// A Provider creates Textures. A Texture owns one resizable RGBA backing
// store and hands out a Drawable for each update. The Drawable is a scoped
// handle: after a successful Lock, Present must be called on every path,
// including error paths, so the texture is never left locked.
//
// # Providers
//
//   - ImageProvider: CPU-backed textures over *image.RGBA, used in tests
//     and headless runs
//   - wgpu.Provider: GPU-backed textures uploaded through gogpu/wgpu
//     (subpackage surface/wgpu)
//
// # Usage
//
//	prov := surface.NewImageProvider()
//	defer prov.Close()
//
//	tex, _ := prov.CreateTexture()
//	defer tex.Release()
//
//	if err := tex.Resize(256, 256); err != nil {
//	    return err
//	}
//
//	d, err := tex.Lock()
//	if err != nil {
//	    return err
//	}
//	defer d.Present()
//	d.Draw(page, image.Point{})
package surface
