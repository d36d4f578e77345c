package pdfrender

import (
	"fmt"
	"io/fs"
	"sync"
)

// DocumentID identifies an open document. Ids are positive, assigned by a
// monotonically increasing counter, and never reused within the process
// lifetime, even after close.
type DocumentID int64

// Format version reported for every document. The decode capability does
// not report real values, so these are fixed constants, as are the
// security flags in DocumentInfo.
const (
	formatVerMajor = 1
	formatVerMinor = 7
)

// DocumentInfo describes an open document.
type DocumentInfo struct {
	ID        DocumentID `json:"docId"`
	PageCount int        `json:"pageCount"`

	// PDF format version, fixed at 1.7.
	VerMajor int `json:"verMajor"`
	VerMinor int `json:"verMinor"`

	// Security flags are constant stubs: encryption and permission
	// introspection is out of scope.
	Encrypted      bool `json:"isEncrypted"`
	AllowsCopying  bool `json:"allowsCopying"`
	AllowsPrinting bool `json:"allowPrinting"`
}

// PageInfo describes one page's dimensions in page-space units.
type PageInfo struct {
	ID         DocumentID `json:"docId"`
	PageNumber int        `json:"pageNumber"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
}

// openDoc is one tracked document resource.
type openDoc struct {
	doc  Document
	info DocumentInfo
}

// Registry owns document handles. It assigns ids, keeps the decode
// resources alive, and opens transient page handles for metadata queries
// and rendering.
//
// Registry is safe for concurrent use; each operation is atomic with
// respect to the document table.
type Registry struct {
	mu     sync.RWMutex
	nextID DocumentID
	docs   map[DocumentID]*openDoc

	// engine, when set, pins every open to one engine. Otherwise the
	// best available registered engine is resolved per open.
	engine Engine
}

// NewRegistry creates an empty document registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	return &Registry{
		nextID: 1,
		docs:   make(map[DocumentID]*openDoc),
		engine: o.engine,
	}
}

// resolveEngine returns the pinned engine or the best available one.
func (r *Registry) resolveEngine() (Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}
	return DefaultEngine()
}

// Open decodes a document from the given source, assigns the next id and
// returns the document's info. The id stays valid until Close.
func (r *Registry) Open(src Source) (DocumentInfo, error) {
	eng, err := r.resolveEngine()
	if err != nil {
		return DocumentInfo{}, err
	}

	doc, err := eng.Open(src)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("pdfrender: open document: %w", err)
	}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	info := DocumentInfo{
		ID:        id,
		PageCount: doc.PageCount(),
		VerMajor:  formatVerMajor,
		VerMinor:  formatVerMinor,
	}
	r.docs[id] = &openDoc{doc: doc, info: info}
	r.mu.Unlock()

	Logger().Debug("document opened",
		"engine", eng.Name(), "docId", int64(id), "pages", info.PageCount)
	return info, nil
}

// OpenFile opens a document from a file path.
func (r *Registry) OpenFile(path string) (DocumentInfo, error) {
	return r.Open(FileSource{Path: path})
}

// OpenData opens a document from in-memory bytes.
func (r *Registry) OpenData(data []byte) (DocumentInfo, error) {
	return r.Open(DataSource{Data: data})
}

// OpenAsset opens a document from a named entry in a bundled filesystem.
func (r *Registry) OpenAsset(fsys fs.FS, name string) (DocumentInfo, error) {
	return r.Open(AssetSource{FS: fsys, Name: name})
}

// Close releases the decode resource behind id and removes it from the
// table. Unknown ids are ignored, so Close is idempotent.
func (r *Registry) Close(id DocumentID) {
	r.mu.Lock()
	d, ok := r.docs[id]
	if ok {
		delete(r.docs, id)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	if err := d.doc.Close(); err != nil {
		Logger().Warn("document close failed", "docId", int64(id), "error", err)
	}
}

// CloseAll closes every open document. Intended for process shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	docs := r.docs
	r.docs = make(map[DocumentID]*openDoc)
	r.mu.Unlock()

	for id, d := range docs {
		if err := d.doc.Close(); err != nil {
			Logger().Warn("document close failed", "docId", int64(id), "error", err)
		}
	}
}

// Info returns the document info for id, or ErrDocumentNotFound.
func (r *Registry) Info(id DocumentID) (DocumentInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[id]
	if !ok {
		return DocumentInfo{}, ErrDocumentNotFound
	}
	return d.info, nil
}

// Len returns the number of open documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// PageInfo opens the page transiently and returns its dimensions.
// pageNumber is 1-based; values outside [1, pageCount] return
// ErrPageOutOfRange.
func (r *Registry) PageInfo(id DocumentID, pageNumber int) (PageInfo, error) {
	var pi PageInfo
	err := r.WithPage(id, pageNumber, func(p Page) error {
		w, h := p.Size()
		pi = PageInfo{ID: id, PageNumber: pageNumber, Width: w, Height: h}
		return nil
	})
	if err != nil {
		return PageInfo{}, err
	}
	return pi, nil
}

// WithPage resolves the document, validates the 1-based page number, opens
// the page and hands it to fn. The page is closed before WithPage returns.
// The document is guaranteed to stay open for the duration of fn.
func (r *Registry) WithPage(id DocumentID, pageNumber int, fn func(Page) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[id]
	if !ok {
		return ErrDocumentNotFound
	}
	if pageNumber < 1 || pageNumber > d.info.PageCount {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, pageNumber, d.info.PageCount)
	}

	// External contract is 1-based, engines are 0-based.
	page, err := d.doc.Page(pageNumber - 1)
	if err != nil {
		return fmt.Errorf("pdfrender: open page %d: %w", pageNumber, err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			Logger().Warn("page close failed",
				"docId", int64(id), "page", pageNumber, "error", cerr)
		}
	}()

	return fn(page)
}
