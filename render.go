package pdfrender

import (
	"fmt"

	"github.com/Anglefish/flutter-pdf-render/buffer"
)

// RenderRequest selects a page region to rasterize.
//
// Width and Height are the output tile size in pixels; when zero they
// default to the page's native pixel dimensions. FullWidth and FullHeight
// are the conceptual full-resolution render the tile is cropped from; when
// zero they default to Width and Height. X and Y are the tile offset
// within that full render.
type RenderRequest struct {
	DocID      DocumentID
	PageNumber int

	X      int
	Y      int
	Width  int
	Height int

	FullWidth  int
	FullHeight int

	// BackgroundFill pre-fills the buffer with opaque white before
	// rasterization, guarding against transparent page content leaving
	// undefined pixels in consumers that assume opaque RGBA.
	BackgroundFill bool
}

// RenderResult describes one completed render.
//
// Addr is the base address of the leased pixel buffer of Size bytes
// (Width*Height*4, RGBA). The buffer stays allocated after the call
// returns; the caller must release it through the arena when done.
type RenderResult struct {
	DocID      DocumentID `json:"docId"`
	PageNumber int        `json:"pageNumber"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	FullWidth  int        `json:"fullWidth"`
	FullHeight int        `json:"fullHeight"`
	PageWidth  float64    `json:"pageWidth"`
	PageHeight float64    `json:"pageHeight"`
	Addr       uintptr    `json:"addr"`
	Size       int        `json:"size"`
}

// Pipeline renders page regions into arena-backed pixel buffers.
type Pipeline struct {
	registry *Registry
	buffers  *buffer.Arena
}

// NewPipeline creates a pipeline rendering documents from registry into
// buffers leased from the arena.
func NewPipeline(registry *Registry, buffers *buffer.Arena) *Pipeline {
	return &Pipeline{registry: registry, buffers: buffers}
}

// Buffers returns the arena backing this pipeline's renders.
func (p *Pipeline) Buffers() *buffer.Arena {
	return p.buffers
}

// Render rasterizes the requested page region into a freshly leased
// buffer and returns its address and metadata.
//
// The page-space to pixel-space transform is
//
//	scaleX = fullWidth / pageWidth
//	scaleY = fullHeight / pageHeight
//	translate = (-x, -y)
//
// so the output covers the (x, y, width, height) window of a conceptual
// (fullWidth x fullHeight) rendering of the page. On any failure no buffer
// stays leased and the handle tables are unchanged.
func (p *Pipeline) Render(req RenderRequest) (*RenderResult, error) {
	if req.Width < 0 || req.Height < 0 || req.FullWidth < 0 || req.FullHeight < 0 {
		return nil, ErrInvalidDimensions
	}

	var res *RenderResult
	err := p.registry.WithPage(req.DocID, req.PageNumber, func(page Page) error {
		pageW, pageH := page.Size()

		width := req.Width
		if width == 0 {
			width = int(pageW)
		}
		height := req.Height
		if height == 0 {
			height = int(pageH)
		}
		fullW := req.FullWidth
		if fullW == 0 {
			fullW = width
		}
		fullH := req.FullHeight
		if fullH == 0 {
			fullH = height
		}
		if width <= 0 || height <= 0 || fullW <= 0 || fullH <= 0 {
			return ErrInvalidDimensions
		}

		m := TileTransform(float64(req.X), float64(req.Y),
			float64(fullW), float64(fullH), pageW, pageH)

		size := width * height * 4
		addr, data, err := p.buffers.Alloc(size)
		if err != nil {
			return err
		}

		target := WrapPixmap(width, height, data)
		if req.BackgroundFill {
			target.Clear(White)
		}

		if err := page.Render(target, m, RenderModeDisplay); err != nil {
			p.buffers.Release(addr)
			return fmt.Errorf("pdfrender: render page %d: %w", req.PageNumber, err)
		}

		Logger().Debug("page rendered",
			"docId", int64(req.DocID), "page", req.PageNumber,
			"tile", fmt.Sprintf("%dx%d@%d,%d", width, height, req.X, req.Y),
			"full", fmt.Sprintf("%dx%d", fullW, fullH), "bytes", size)

		res = &RenderResult{
			DocID:      req.DocID,
			PageNumber: req.PageNumber,
			X:          req.X,
			Y:          req.Y,
			Width:      width,
			Height:     height,
			FullWidth:  fullW,
			FullHeight: fullH,
			PageWidth:  pageW,
			PageHeight: pageH,
			Addr:       addr,
			Size:       size,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
