package hostfuncs

import (
	"context"
	"fmt"
	"sort"

	"github.com/ninesh-dev/ninesh/domain/entities"
	nerrors "github.com/ninesh-dev/ninesh/domain/errors"
)

// Registry is an immutable collection of named capabilities.
// Once created via NewRegistry, capabilities cannot be added or removed,
// so lookups need no locking.
type Registry struct {
	caps  map[string]Capability
	names []string // sorted for consistent iteration
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	caps       map[string]Capability
	middleware []Middleware
	errors     []error
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryBuilder)

// NewRegistry creates an immutable Registry with the given options.
// Registering a name twice fails the build with a
// *errors.DuplicateCapabilityError naming the first duplicate.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware()),
//	    WithBundle(StorageBundle(handles)),
//	    WithCapability(custom),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{caps: make(map[string]Capability)}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.caps))
	for name := range b.caps {
		names = append(names, name)
	}
	sort.Strings(names)

	// Apply middleware in reverse order so the first one wraps outermost.
	wrapped := make(map[string]Capability, len(b.caps))
	for name, c := range b.caps {
		fn := c.Fn
		for i := len(b.middleware) - 1; i >= 0; i-- {
			fn = b.middleware[i](fn)
		}
		c.Fn = withHostContext(name, fn)
		wrapped[name] = c
	}

	return &Registry{caps: wrapped, names: names}, nil
}

// withHostContext makes the capability name visible to middleware.
func withHostContext(name string, next Native) Native {
	return func(ctx context.Context, args Args) ([]Value, error) {
		return next(HostContextFrom(ctx, name), args)
	}
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (Capability, bool) {
	c, ok := r.caps[name]
	return c, ok
}

// Has returns true if a capability with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.caps[name]
	return ok
}

// Names returns a sorted list of all registered capability names.
func (r *Registry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	return len(r.names)
}

// Group returns the sorted names registered for provider group g.
func (r *Registry) Group(g entities.Group) []string {
	var names []string
	for _, name := range r.names {
		if r.caps[name].Group == g {
			names = append(names, name)
		}
	}
	return names
}

// Invoke dispatches a capability call by name.
func (r *Registry) Invoke(ctx context.Context, name string, args ...Value) ([]Value, error) {
	c, ok := r.caps[name]
	if !ok {
		return nil, fmt.Errorf("unknown capability: %s", name)
	}
	return c.Call(ctx, args...)
}

// addCapability registers c under its name.
func (b *registryBuilder) addCapability(c Capability) error {
	if c.Name == "" {
		return fmt.Errorf("capability name cannot be empty")
	}
	if c.Fn == nil {
		return fmt.Errorf("capability %q has no entry point", c.Name)
	}
	if _, exists := b.caps[c.Name]; exists {
		return &nerrors.DuplicateCapabilityError{Name: c.Name}
	}
	b.caps[c.Name] = c
	return nil
}

// WithCapability registers a single capability.
func WithCapability(c Capability) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addCapability(c); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
