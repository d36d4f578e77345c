package pdfrender

import "errors"

// Errors returned by the document registry and render pipeline.
var (
	// ErrDocumentNotFound is returned when a document id is unknown or the
	// document has already been closed. Ids are never reused, so a stale id
	// stays invalid for the process lifetime.
	ErrDocumentNotFound = errors.New("pdfrender: document not found")

	// ErrPageOutOfRange is returned when a page number falls outside
	// [1, pageCount].
	ErrPageOutOfRange = errors.New("pdfrender: page number out of range")

	// ErrInvalidDimensions is returned when a requested width or height
	// is not positive.
	ErrInvalidDimensions = errors.New("pdfrender: width and height must be positive")

	// ErrNilPixmap is returned when a rasterization target is nil.
	ErrNilPixmap = errors.New("pdfrender: pixmap is nil")
)
