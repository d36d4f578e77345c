package pdfrender

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pixmap is a render target: a width x height grid of non-premultiplied
// RGBA bytes in row-major order, 4 bytes per pixel. Decode engines
// rasterize page regions into it, and the channel layer hands its storage
// to the embedder.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap allocates a zeroed (fully transparent) pixmap.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// WrapPixmap creates a pixmap view over existing pixel storage.
// The data is used directly, not copied: writes to the pixmap land in the
// provided slice. This is how the render pipeline rasterizes straight into
// a pinned arena region. len(data) must equal width*height*4.
func WrapPixmap(width, height int, data []uint8) *Pixmap {
	if len(data) != width*height*4 {
		panic(fmt.Sprintf("pdfrender: WrapPixmap: %d bytes for %dx%d pixmap (want %d)",
			len(data), width, height, width*height*4))
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   data,
	}
}

// Width returns the pixmap width in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the pixmap height in pixels.
func (p *Pixmap) Height() int { return p.height }

// Data returns the backing pixel storage. The slice is shared, not a copy.
func (p *Pixmap) Data() []uint8 { return p.data }

// SetPixel writes one pixel. Writes outside the pixmap are dropped.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R * 255))
	p.data[i+1] = uint8(clamp255(c.G * 255))
	p.data[i+2] = uint8(clamp255(c.B * 255))
	p.data[i+3] = uint8(clamp255(c.A * 255))
}

// GetPixel reads one pixel. Reads outside the pixmap return Transparent.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the whole pixmap with c.
func (p *Pixmap) Clear(c RGBA) {
	if len(p.data) == 0 {
		return
	}
	// Seed the first pixel, then double the filled prefix.
	p.SetPixel(0, 0, c)
	for filled := 4; filled < len(p.data); filled *= 2 {
		copy(p.data[filled:], p.data[:filled])
	}
}

// RGBAView returns an *image.RGBA sharing the pixmap's storage.
// Drawing into the view writes through to the pixmap data. Decode engines
// use this to rasterize with the standard image/draw machinery.
func (p *Pixmap) RGBAView() *image.RGBA {
	return &image.RGBA{
		Pix:    p.data,
		Stride: p.width * 4,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// ToImage copies the pixmap into a new independent image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// SavePNG writes the pixmap to path as a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
