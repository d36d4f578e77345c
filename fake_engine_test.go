package pdfrender

import (
	"errors"
	"fmt"
	"math"
)

// fakeEngine decodes nothing real: documents are synthetic pages whose
// pixel content is a pure function of page-space position. Renders are
// deterministic, so tiles of the same conceptual full render can be
// compared byte-for-byte.
type fakeEngine struct {
	pageW float64
	pageH float64
	pages int

	failOpen   bool
	failRender bool

	docs []*fakeDoc
}

var _ Engine = (*fakeEngine)(nil)

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Open(Source) (Document, error) {
	if e.failOpen {
		return nil, errors.New("fake: open refused")
	}
	d := &fakeDoc{engine: e}
	e.docs = append(e.docs, d)
	return d, nil
}

type fakeDoc struct {
	engine *fakeEngine
	closed int
}

func (d *fakeDoc) PageCount() int { return d.engine.pages }

func (d *fakeDoc) Page(index int) (Page, error) {
	if index < 0 || index >= d.engine.pages {
		return nil, fmt.Errorf("fake: page index %d out of range", index)
	}
	return &fakePage{engine: d.engine}, nil
}

func (d *fakeDoc) Close() error {
	d.closed++
	return nil
}

// fakePage samples a deterministic color per page-space unit cell through
// the inverse transform at pixel centers. A given output pixel of a given
// conceptual full render therefore sees the same cell no matter how the
// render is tiled. Pixels mapping outside the page are left untouched.
type fakePage struct {
	engine *fakeEngine
}

func (p *fakePage) Size() (float64, float64) { return p.engine.pageW, p.engine.pageH }

func (p *fakePage) Close() error { return nil }

func (p *fakePage) Render(target *Pixmap, m Matrix, _ RenderMode) error {
	if p.engine.failRender {
		return errors.New("fake: render refused")
	}
	if target == nil {
		return ErrNilPixmap
	}
	inv := m.Invert()
	for py := 0; py < target.Height(); py++ {
		for px := 0; px < target.Width(); px++ {
			pt := inv.TransformPoint(Point{X: float64(px) + 0.5, Y: float64(py) + 0.5})
			if pt.X < 0 || pt.X >= p.engine.pageW || pt.Y < 0 || pt.Y >= p.engine.pageH {
				continue
			}
			target.SetPixel(px, py, cellColor(int(math.Floor(pt.X)), int(math.Floor(pt.Y))))
		}
	}
	return nil
}

func cellColor(x, y int) RGBA {
	return RGBA{
		R: float64((x*31+y*17)%251) / 255,
		G: float64((x*13+y*41)%239) / 255,
		B: float64((x*7+y*3)%127) / 255,
		A: 1,
	}
}

// newFakeRegistry returns a registry pinned to a fresh fake engine.
func newFakeRegistry(pageW, pageH float64, pages int) (*Registry, *fakeEngine) {
	e := &fakeEngine{pageW: pageW, pageH: pageH, pages: pages}
	return NewRegistry(WithEngine(e)), e
}
