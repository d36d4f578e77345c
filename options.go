package pdfrender

// RegistryOption configures a Registry during creation.
// Use functional options to customize Registry behavior.
//
// Example:
//
//	// Default: best available registered engine
//	reg := pdfrender.NewRegistry()
//
//	// Fixed engine (dependency injection)
//	reg := pdfrender.NewRegistry(pdfrender.WithEngine(myEngine))
type RegistryOption func(*registryOptions)

// registryOptions holds optional configuration for Registry creation.
type registryOptions struct {
	engine Engine
}

// WithEngine pins the Registry to a specific decode engine.
// Without this option the Registry resolves the highest-priority available
// engine on each open, so importing an engine package is enough:
//
//	import _ "github.com/Anglefish/flutter-pdf-render/engine/fitz"
func WithEngine(e Engine) RegistryOption {
	return func(o *registryOptions) {
		o.engine = e
	}
}
