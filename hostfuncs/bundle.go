package hostfuncs

import (
	"log/slog"

	"github.com/ninesh-dev/ninesh/domain/ports"
)

// Bundle is a pre-configured set of related capabilities, usually one
// provider group.
type Bundle interface {
	// Capabilities returns the bundle's entries. Bundles return slices, not
	// maps, so a name repeated inside one bundle still fails the build.
	Capabilities() []Capability
}

type staticBundle []Capability

func (b staticBundle) Capabilities() []Capability {
	return b
}

type compositeBundle []Bundle

func (b compositeBundle) Capabilities() []Capability {
	var caps []Capability
	for _, bundle := range b {
		caps = append(caps, bundle.Capabilities()...)
	}
	return caps
}

// Providers are the native collaborators behind the built-in bundles.
type Providers struct {
	// Handles is shared by every bundle; required.
	Handles *HandleTable

	// Editor serves readline and add_history. A nil Editor makes readline
	// report end of input.
	Editor ports.LineEditor

	// Mounts overrides the live mount table for is_slow_mount.
	Mounts ports.MountSource

	// SlowFilesystems extends the fixed set of slow filesystem types.
	SlowFilesystems []string

	Logger *slog.Logger
}

func (p Providers) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// AllBundles returns every built-in provider group in population order:
// storage, line editing, terminal, async I/O, filesystem.
func AllBundles(p Providers) Bundle {
	return compositeBundle{
		StorageBundle(p.Handles),
		LineEditBundle(p.Editor),
		TerminalBundle(p.Handles),
		AsyncBundle(p.Handles),
		FilesystemBundle(p),
	}
}

// NewDefaultRegistry builds the registry of all built-in capabilities with
// panic recovery outermost. opts are applied after the defaults.
func NewDefaultRegistry(p Providers, opts ...RegistryOption) (*Registry, error) {
	if p.Handles == nil {
		p.Handles = NewHandleTable()
	}
	base := []RegistryOption{
		WithMiddleware(PanicRecoveryMiddleware(), LoggingMiddleware(p.logger())),
		WithBundle(AllBundles(p)),
	}
	return NewRegistry(append(base, opts...)...)
}

// WithBundle registers every capability of a bundle.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for _, c := range bundle.Capabilities() {
			if err := b.addCapability(c); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}
