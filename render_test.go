package pdfrender

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Anglefish/flutter-pdf-render/buffer"
)

func newFakePipeline(pageW, pageH float64, pages int) (*Pipeline, *Registry, *fakeEngine) {
	r, e := newFakeRegistry(pageW, pageH, pages)
	return NewPipeline(r, buffer.NewArena()), r, e
}

// renderCopy renders, copies the leased bytes and releases the lease.
func renderCopy(t *testing.T, p *Pipeline, req RenderRequest) (*RenderResult, []byte) {
	t.Helper()
	res, err := p.Render(req)
	if err != nil {
		t.Fatalf("Render(%+v) error = %v", req, err)
	}
	data, ok := p.Buffers().Bytes(res.Addr)
	if !ok {
		t.Fatalf("render buffer %#x not tracked", res.Addr)
	}
	out := append([]byte(nil), data...)
	p.Buffers().Release(res.Addr)
	return res, out
}

func TestRenderDefaultsToNativeSize(t *testing.T) {
	p, r, _ := newFakePipeline(64, 48, 1)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	res, data := renderCopy(t, p, RenderRequest{DocID: info.ID, PageNumber: 1})

	if res.Width != 64 || res.Height != 48 {
		t.Errorf("tile = %dx%d, want 64x48", res.Width, res.Height)
	}
	if res.FullWidth != 64 || res.FullHeight != 48 {
		t.Errorf("full = %dx%d, want 64x48", res.FullWidth, res.FullHeight)
	}
	if res.PageWidth != 64 || res.PageHeight != 48 {
		t.Errorf("page = %gx%g, want 64x48", res.PageWidth, res.PageHeight)
	}
	if res.Size != 64*48*4 {
		t.Errorf("Size = %d, want %d", res.Size, 64*48*4)
	}
	if len(data) != res.Size {
		t.Errorf("len(data) = %d, want %d", len(data), res.Size)
	}
}

func TestRenderFullDefaultsToTileSize(t *testing.T) {
	p, r, _ := newFakePipeline(64, 48, 1)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	res, _ := renderCopy(t, p, RenderRequest{
		DocID: info.ID, PageNumber: 1, Width: 32, Height: 24,
	})
	if res.FullWidth != 32 || res.FullHeight != 24 {
		t.Errorf("full = %dx%d, want 32x24", res.FullWidth, res.FullHeight)
	}
}

func TestRenderLeasesBuffer(t *testing.T) {
	p, r, _ := newFakePipeline(64, 48, 1)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	res, err := p.Render(RenderRequest{DocID: info.ID, PageNumber: 1})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := p.Buffers().Len(); got != 1 {
		t.Errorf("arena Len() = %d, want 1 while leased", got)
	}
	if res.Addr == 0 {
		t.Error("Addr = 0, want nonzero")
	}

	p.Buffers().Release(res.Addr)
	if got := p.Buffers().Len(); got != 0 {
		t.Errorf("arena Len() = %d, want 0 after release", got)
	}
}

func TestRenderIdentityRoundTrip(t *testing.T) {
	p, r, e := newFakePipeline(64, 48, 1)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	_, got := renderCopy(t, p, RenderRequest{
		DocID: info.ID, PageNumber: 1,
		Width: 64, Height: 48, FullWidth: 64, FullHeight: 48,
	})

	// The same render done directly with an identity-equivalent matrix.
	want := NewPixmap(64, 48)
	page := &fakePage{engine: e}
	if err := page.Render(want, TileTransform(0, 0, 64, 48, 64, 48), RenderModeDisplay); err != nil {
		t.Fatalf("direct render error = %v", err)
	}
	if !bytes.Equal(got, want.Data()) {
		t.Error("native-size render differs from direct identity render")
	}
}

func TestRenderTilingReassembly(t *testing.T) {
	const (
		fullW = 128
		fullH = 96
		tileW = fullW / 2
		tileH = fullH / 2
	)
	p, r, _ := newFakePipeline(64, 48, 1)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	_, whole := renderCopy(t, p, RenderRequest{
		DocID: info.ID, PageNumber: 1,
		Width: fullW, Height: fullH, FullWidth: fullW, FullHeight: fullH,
	})

	quads := [][2]int{{0, 0}, {tileW, 0}, {0, tileH}, {tileW, tileH}}
	tiles := make([][]byte, len(quads))
	for i, q := range quads {
		_, tiles[i] = renderCopy(t, p, RenderRequest{
			DocID: info.ID, PageNumber: 1,
			X: q[0], Y: q[1], Width: tileW, Height: tileH,
			FullWidth: fullW, FullHeight: fullH,
		})
	}

	// Stitch the quadrants back together row by row.
	stitched := make([]byte, 0, fullW*fullH*4)
	for y := 0; y < fullH; y++ {
		left, right := 0, 1
		ty := y
		if y >= tileH {
			left, right = 2, 3
			ty = y - tileH
		}
		stitched = append(stitched, tiles[left][ty*tileW*4:(ty+1)*tileW*4]...)
		stitched = append(stitched, tiles[right][ty*tileW*4:(ty+1)*tileW*4]...)
	}

	if !bytes.Equal(stitched, whole) {
		t.Error("reassembled quadrant tiles differ from the whole render")
	}
}

func TestRenderTopLeftCropScenario(t *testing.T) {
	p, r, _ := newFakePipeline(612, 792, 1)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	res, tile := renderCopy(t, p, RenderRequest{
		DocID: info.ID, PageNumber: 1,
		Width: 300, Height: 400, FullWidth: 612, FullHeight: 792,
	})
	if res.Size != 300*400*4 {
		t.Fatalf("Size = %d, want %d", res.Size, 300*400*4)
	}

	_, whole := renderCopy(t, p, RenderRequest{
		DocID: info.ID, PageNumber: 1,
		Width: 612, Height: 792, FullWidth: 612, FullHeight: 792,
	})

	const wholeStride = 612 * 4
	const tileStride = 300 * 4
	for y := 0; y < 400; y++ {
		got := tile[y*tileStride : (y+1)*tileStride]
		want := whole[y*wholeStride : y*wholeStride+tileStride]
		if !bytes.Equal(got, want) {
			t.Fatalf("row %d of the 300x400 tile differs from the full render crop", y)
		}
	}
}

func TestRenderBackgroundFill(t *testing.T) {
	p, r, _ := newFakePipeline(64, 48, 1)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	// A tile entirely outside the page keeps the background only.
	req := RenderRequest{
		DocID: info.ID, PageNumber: 1,
		X: 64, Y: 0, Width: 16, Height: 16, FullWidth: 64, FullHeight: 48,
		BackgroundFill: true,
	}
	_, filled := renderCopy(t, p, req)
	for i, b := range filled {
		if b != 0xFF {
			t.Fatalf("filled[%d] = %#x, want 0xff (opaque white)", i, b)
		}
	}

	req.BackgroundFill = false
	_, unfilled := renderCopy(t, p, req)
	for i, b := range unfilled {
		if b != 0 {
			t.Fatalf("unfilled[%d] = %#x, want 0", i, b)
		}
	}
}

func TestRenderNegativeDimensions(t *testing.T) {
	p, r, _ := newFakePipeline(64, 48, 1)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	tests := []struct {
		name string
		req  RenderRequest
	}{
		{"negative width", RenderRequest{DocID: info.ID, PageNumber: 1, Width: -1, Height: 10}},
		{"negative height", RenderRequest{DocID: info.ID, PageNumber: 1, Width: 10, Height: -1}},
		{"negative full width", RenderRequest{DocID: info.ID, PageNumber: 1, FullWidth: -612}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Render(tt.req); !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("Render() error = %v, want ErrInvalidDimensions", err)
			}
		})
	}
}

func TestRenderUnknownDocument(t *testing.T) {
	p, _, _ := newFakePipeline(64, 48, 1)

	if _, err := p.Render(RenderRequest{DocID: 5, PageNumber: 1}); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Render() error = %v, want ErrDocumentNotFound", err)
	}
}

func TestRenderPageOutOfRange(t *testing.T) {
	p, r, _ := newFakePipeline(64, 48, 2)
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	for _, page := range []int{0, -1, 3} {
		if _, err := p.Render(RenderRequest{DocID: info.ID, PageNumber: page}); !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("Render(page %d) error = %v, want ErrPageOutOfRange", page, err)
		}
	}
}

func TestRenderFailureReleasesBuffer(t *testing.T) {
	r, e := newFakeRegistry(64, 48, 1)
	e.failRender = true
	p := NewPipeline(r, buffer.NewArena())

	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	if _, err := p.Render(RenderRequest{DocID: info.ID, PageNumber: 1}); err == nil {
		t.Fatal("Render() expected error from failing engine")
	}
	if got := p.Buffers().Len(); got != 0 {
		t.Errorf("arena Len() = %d after failed render, want 0", got)
	}
}
