// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

// Package fitz provides a decode engine backed by go-fitz (MuPDF).
//
// Importing the package registers the engine under the name "mupdf" with
// native priority:
//
//	import _ "github.com/Anglefish/flutter-pdf-render/engine/fitz"
package fitz

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"
	"sync"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"

	pdfrender "github.com/Anglefish/flutter-pdf-render"
)

// Package errors.
var (
	// ErrClosed is returned when a closed document is used.
	ErrClosed = errors.New("fitz: document closed")

	// ErrBadTransform is returned for matrices MuPDF rendering cannot
	// honor. Only axis-aligned transforms with positive scale are
	// supported.
	ErrBadTransform = errors.New("fitz: transform must be axis-aligned with positive scale")
)

func init() {
	pdfrender.RegisterEngine("mupdf", 100, New(), nil)
}

// Engine decodes documents with MuPDF.
type Engine struct{}

var _ pdfrender.Engine = (*Engine)(nil)

// New returns the MuPDF engine.
func New() *Engine { return &Engine{} }

// Name returns "mupdf".
func (*Engine) Name() string { return "mupdf" }

// Open decodes a document from a file, a byte slice or an asset bundle.
func (*Engine) Open(src pdfrender.Source) (pdfrender.Document, error) {
	var (
		doc *fitz.Document
		err error
	)
	switch s := src.(type) {
	case pdfrender.FileSource:
		doc, err = fitz.New(s.Path)
	case pdfrender.DataSource:
		doc, err = fitz.NewFromMemory(s.Data)
	case pdfrender.AssetSource:
		var data []byte
		data, err = fs.ReadFile(s.FS, s.Name)
		if err == nil {
			doc, err = fitz.NewFromMemory(data)
		}
	default:
		return nil, fmt.Errorf("fitz: unsupported source %T", src)
	}
	if err != nil {
		return nil, fmt.Errorf("fitz: open: %w", err)
	}
	return &document{doc: doc}, nil
}

// document wraps one MuPDF document. All MuPDF access goes through the
// document mutex; the underlying context is not safe for concurrent use.
type document struct {
	mu     sync.Mutex
	doc    *fitz.Document
	closed bool
}

var _ pdfrender.Document = (*document)(nil)

// PageCount returns the number of pages.
func (d *document) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0
	}
	return d.doc.NumPage()
}

// Page returns the page at the given 0-based index.
func (d *document) Page(index int) (pdfrender.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	if index < 0 || index >= d.doc.NumPage() {
		return nil, fmt.Errorf("%w: page index %d", pdfrender.ErrPageOutOfRange, index)
	}
	bounds, err := d.doc.Bound(index)
	if err != nil {
		return nil, fmt.Errorf("fitz: page bounds: %w", err)
	}
	return &page{
		doc:    d,
		index:  index,
		width:  float64(bounds.Dx()),
		height: float64(bounds.Dy()),
	}, nil
}

// Close releases the MuPDF document. Safe to call more than once.
func (d *document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.doc.Close()
}

// imageAt rasterizes a whole page at the given DPI under the document
// lock.
func (d *document) imageAt(index int, dpi float64) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	img, err := d.doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, fmt.Errorf("fitz: rasterize: %w", err)
	}
	return img, nil
}

// page is one document page. The size is captured when the page is
// opened; rendering goes back through the parent document.
type page struct {
	doc    *document
	index  int
	width  float64
	height float64
}

var _ pdfrender.Page = (*page)(nil)

// Size returns the page dimensions in points.
func (p *page) Size() (float64, float64) { return p.width, p.height }

// Close releases the page. MuPDF pages hold no per-page state here.
func (p *page) Close() error { return nil }

// Render rasterizes the page region selected by m into target.
//
// MuPDF renders whole pages at a DPI, so the page is rasterized at the
// matrix scale and the target window is copied out of it. The render mode
// is ignored; MuPDF has no display/print distinction.
func (p *page) Render(target *pdfrender.Pixmap, m pdfrender.Matrix, _ pdfrender.RenderMode) error {
	if target == nil {
		return pdfrender.ErrNilPixmap
	}
	if !m.IsAxisAligned() || m.A <= 0 || m.E <= 0 {
		return ErrBadTransform
	}

	sx, sy := m.A, m.E
	// The matrix carries the tile offset as a negative translation.
	offX, offY := -m.C, -m.F

	rs := math.Max(sx, sy)
	img, err := p.doc.imageAt(p.index, 72*rs)
	if err != nil {
		return err
	}
	src, ok := img.(*image.RGBA)
	if !ok {
		b := img.Bounds()
		src = image.NewRGBA(b)
		draw.Copy(src, b.Min, img, b, draw.Src, nil)
	}

	view := target.RGBAView()

	if sx == sy {
		// The rendered image is the full-resolution render; copy the
		// window starting at the tile offset.
		sp := src.Bounds().Min.Add(image.Pt(int(math.Round(offX)), int(math.Round(offY))))
		draw.Draw(view, view.Bounds(), src, sp, draw.Src)
		return nil
	}

	// Mismatched scales: the page was rendered at the larger scale.
	// Map the window back onto the rendered image and scale it in,
	// clipping both rectangles proportionally at the page edges.
	w := float64(target.Width())
	h := float64(target.Height())
	rw := float64(src.Bounds().Dx())
	rh := float64(src.Bounds().Dy())

	fx0 := rs * offX / sx
	fy0 := rs * offY / sy
	fx1 := rs * (offX + w) / sx
	fy1 := rs * (offY + h) / sy

	cx0 := math.Max(fx0, 0)
	cy0 := math.Max(fy0, 0)
	cx1 := math.Min(fx1, rw)
	cy1 := math.Min(fy1, rh)
	if cx0 >= cx1 || cy0 >= cy1 {
		return nil
	}

	sb := src.Bounds().Min
	srcR := image.Rect(
		sb.X+int(math.Round(cx0)),
		sb.Y+int(math.Round(cy0)),
		sb.X+int(math.Round(cx1)),
		sb.Y+int(math.Round(cy1)),
	)
	dstR := image.Rect(
		int(math.Round((cx0-fx0)/(fx1-fx0)*w)),
		int(math.Round((cy0-fy0)/(fy1-fy0)*h)),
		int(math.Round((cx1-fx0)/(fx1-fx0)*w)),
		int(math.Round((cy1-fy0)/(fy1-fy0)*h)),
	)
	draw.ApproxBiLinear.Scale(view, dstR, src, srcR, draw.Src, nil)
	return nil
}
