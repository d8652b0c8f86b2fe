package host

import (
	"io"
	"log/slog"

	"github.com/ninesh-dev/ninesh/hostfuncs"
)

// Option defines a functional option for configuring the Host.
type Option func(*Host)

// WithRegistry sets the capability registry published as bindings.native.
// Without it the host builds hostfuncs.NewDefaultRegistry with no editor.
func WithRegistry(registry *hostfuncs.Registry) Option {
	return func(h *Host) {
		h.registry = registry
	}
}

// WithModuleSource replaces the chunk of one bootstrap module
// (LanguageModule, BindingsModule or BootModule).
func WithModuleSource(name string, chunk []byte) Option {
	return func(h *Host) {
		h.sources[name] = chunk
	}
}

// WithModules replaces several module chunks at once.
func WithModules(sources map[string][]byte) Option {
	return func(h *Host) {
		for name, chunk := range sources {
			h.sources[name] = chunk
		}
	}
}

// WithStderr sets the diagnostics stream. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(h *Host) {
		h.stderr = w
	}
}

// WithExitFunc sets the function called to terminate the process after a
// fail-fast evaluation error. Defaults to os.Exit.
func WithExitFunc(exit func(code int)) Option {
	return func(h *Host) {
		h.exit = exit
	}
}

// WithLogger sets the logger for bootstrap tracing.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}
