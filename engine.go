package pdfrender

import (
	"errors"
	"io/fs"
	"sort"
	"sync"
)

// Source identifies where a document's bytes come from.
// The concrete types are FileSource, DataSource and AssetSource.
type Source interface {
	isSource()
}

// FileSource opens a document from a file path.
type FileSource struct {
	Path string
}

// DataSource opens a document from in-memory bytes.
type DataSource struct {
	Data []byte
}

// AssetSource opens a document from a named entry in a bundled filesystem.
// The bytes are read through fs.FS and handed to the engine directly; no
// temporary file is staged.
type AssetSource struct {
	FS   fs.FS
	Name string
}

func (FileSource) isSource()  {}
func (DataSource) isSource()  {}
func (AssetSource) isSource() {}

// RenderMode selects the rasterization quality profile.
type RenderMode uint8

const (
	// RenderModeDisplay is anti-aliased output intended for on-screen use.
	RenderModeDisplay RenderMode = iota

	// RenderModePrint favors print fidelity over smoothing.
	RenderModePrint
)

// String returns a human-readable name for the mode.
func (m RenderMode) String() string {
	switch m {
	case RenderModeDisplay:
		return "display"
	case RenderModePrint:
		return "print"
	default:
		return "unknown"
	}
}

// Engine is the decode capability: it turns a Source into a decoded
// Document. Implementations live in engine/ subpackages and self-register
// via RegisterEngine.
type Engine interface {
	// Name returns the engine identifier.
	Name() string

	// Open decodes a document from the given source.
	Open(src Source) (Document, error)
}

// Document is one decoded document held open by an Engine.
type Document interface {
	// PageCount returns the number of pages. Fixed for the document's
	// lifetime.
	PageCount() int

	// Page opens the page at the given 0-based index.
	// The caller must Close the page when done.
	Page(index int) (Page, error)

	// Close releases the decode resources. Further use is an error.
	Close() error
}

// Page is a transient handle to one page of an open document.
type Page interface {
	// Size returns the page dimensions in page-space units (points).
	Size() (width, height float64)

	// Render rasterizes the page into target through the given transform.
	// Pixels outside the transformed page are left untouched.
	Render(target *Pixmap, m Matrix, mode RenderMode) error

	// Close releases the page handle.
	Close() error
}

// EngineEntry represents a registered decode engine.
type EngineEntry struct {
	// Name is the unique identifier for this engine.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: native decoders (MuPDF)
	//   - 10: pure Go fallbacks
	Priority int

	// Engine is the engine instance.
	Engine Engine

	// Available reports if the engine is usable on this system.
	Available func() bool
}

// globalEngines is the default engine registry.
var globalEngines = &engineRegistry{}

// engineRegistry manages registered decode engines. Engines register
// themselves in init() so importing an engine package is all it takes to
// make it selectable:
//
//	import _ "github.com/Anglefish/flutter-pdf-render/engine/fitz"
type engineRegistry struct {
	mu      sync.RWMutex
	entries map[string]*EngineEntry
}

// RegisterEngine adds an engine to the global registry.
//
// If available is nil, the engine is assumed always available.
// Registering a name that already exists replaces the previous entry.
func RegisterEngine(name string, priority int, engine Engine, available func() bool) {
	globalEngines.register(name, priority, engine, available)
}

// UnregisterEngine removes an engine from the global registry.
func UnregisterEngine(name string) {
	globalEngines.unregister(name)
}

// Engines returns all registered engine names sorted by priority
// (highest first).
func Engines() []string {
	return globalEngines.names(false)
}

// AvailableEngines returns names of all available engines sorted by priority.
func AvailableEngines() []string {
	return globalEngines.names(true)
}

// EngineByName returns a specific named engine.
func EngineByName(name string) (Engine, error) {
	return globalEngines.byName(name)
}

// DefaultEngine returns the best available engine.
// Returns ErrNoEngineAvailable if none is registered or available.
func DefaultEngine() (Engine, error) {
	return globalEngines.best()
}

func (r *engineRegistry) register(name string, priority int, engine Engine, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*EngineEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &EngineEntry{
		Name:      name,
		Priority:  priority,
		Engine:    engine,
		Available: available,
	}
}

func (r *engineRegistry) unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

func (r *engineRegistry) byName(name string) (Engine, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &EngineNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &EngineUnavailableError{Name: name}
	}
	return entry.Engine, nil
}

func (r *engineRegistry) best() (Engine, error) {
	for _, name := range r.names(true) {
		e, err := r.byName(name)
		if err == nil {
			return e, nil
		}
	}
	return nil, ErrNoEngineAvailable
}

// names returns engine names sorted by priority (highest first).
// If onlyAvailable is true, filters to available engines only.
func (r *engineRegistry) names(onlyAvailable bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoEngineAvailable is returned when no decode engine is registered
	// or available on the current system.
	ErrNoEngineAvailable = errors.New("pdfrender: no decode engine available")
)

// EngineNotFoundError indicates a named engine is not registered.
type EngineNotFoundError struct {
	Name string
}

func (e *EngineNotFoundError) Error() string {
	return "pdfrender: engine not found: " + e.Name
}

// EngineUnavailableError indicates an engine exists but is not available.
type EngineUnavailableError struct {
	Name string
}

func (e *EngineUnavailableError) Error() string {
	return "pdfrender: engine unavailable: " + e.Name
}
