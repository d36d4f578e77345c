package pdfrender

import "math"

// Matrix is a 2D affine transform in row-major 2x3 form:
//
//	| A  B  C |      x' = A*x + B*y + C
//	| D  E  F |      y' = D*x + E*y + F
//
// Throughout the package it carries page-space coordinates (points, origin
// top-left) onto the pixel grid of a render target.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the transform that maps every point to itself.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate returns a transform that shifts by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale returns a transform that scales by x horizontally and y vertically.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// TileTransform builds the matrix that maps page-space onto the pixel grid
// of a (fullWidth x fullHeight) rendering of a (pageWidth x pageHeight)
// page, shifted so the output origin lands on the tile offset (x, y):
//
//	scaleX = fullWidth / pageWidth
//	scaleY = fullHeight / pageHeight
//	translate = (-x, -y)
//
// Rasterizing a width x height window through this matrix yields the
// (x, y, width, height) tile of the conceptual full-resolution render.
func TileTransform(x, y, fullWidth, fullHeight, pageWidth, pageHeight float64) Matrix {
	return Translate(-x, -y).Multiply(Scale(fullWidth/pageWidth, fullHeight/pageHeight))
}

// TransformPoint maps p through the transform.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Multiply composes two transforms. The receiver is applied last:
// m.Multiply(n) maps p to m(n(p)).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Invert returns the inverse transform, or the identity when the matrix
// is singular.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	inv := 1.0 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}
}

// IsIdentity reports whether the transform maps every point to itself.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation reports whether the transform only shifts, without scaling
// or rotation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// IsAxisAligned reports whether the transform has no rotation or shear
// component, so axis-aligned rectangles stay axis-aligned.
func (m Matrix) IsAxisAligned() bool {
	return m.B == 0 && m.D == 0
}
