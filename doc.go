// Package pdfrender provides a document-rendering service for PDF sources.
//
// # Overview
//
// pdfrender rasterizes selected page regions of opened documents into pixel
// buffers or GPU-backed surface textures, at caller-chosen scale and offset.
// It is organized around four collaborating components:
//
//   - Registry: owns document handles, issues monotonic ids, opens transient
//     page handles for metadata queries and rendering.
//   - Pipeline: computes the page-space to pixel-space transform and drives
//     rasterization of a page region into a leased buffer.
//   - buffer.Arena: allocates pinned native pixel buffers addressed by their
//     raw memory address, leased to the caller until explicit release.
//   - texture.Updater: owns surface textures and rasterizes page regions
//     directly into them.
//
// # Quick Start
//
//	import (
//	    "github.com/Anglefish/flutter-pdf-render"
//	    _ "github.com/Anglefish/flutter-pdf-render/engine/fitz"
//	)
//
//	reg := pdfrender.NewRegistry()
//	defer reg.CloseAll()
//
//	info, err := reg.OpenFile("report.pdf")
//	// info.PageCount, info.ID ...
//
// # Decode Engines
//
// Actual PDF decoding is pluggable. An Engine turns a byte or file source
// into a Document whose pages report their size and rasterize themselves
// through an affine transform. Engines self-register; engine/fitz provides
// a MuPDF-backed implementation.
//
// # Coordinate System
//
// Page-space has its origin at the top-left, X increasing right and Y
// increasing down, in the page's own units (typically points). Output
// pixel-space follows the same orientation.
package pdfrender

// Library version.
const (
	Version      = "0.1.0"
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)
