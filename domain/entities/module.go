package entities

// LoadState is the lifecycle position of a bootstrap module.
type LoadState uint8

const (
	// Unloaded modules have not been touched yet.
	Unloaded LoadState = iota
	// Loaded modules have been parsed and executed once, producing a value.
	Loaded
	// Registered modules have been published into the interpreter.
	Registered
	// Failed modules could not be parsed, executed or published.
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Registered:
		return "registered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ModuleKind distinguishes modules backed by a chunk from the native
// capability module built in Go.
type ModuleKind uint8

const (
	// ModuleChunk is loaded from an embedded or configured source chunk.
	ModuleChunk ModuleKind = iota
	// ModuleNative is constructed from the capability registry.
	ModuleNative
)

// ModuleRecord tracks one module of the fixed bootstrap sequence.
type ModuleRecord struct {
	// Name is the key the module is published under.
	Name string

	// After names the module that must be Registered before this one loads.
	// Empty for the first module.
	After string

	Kind  ModuleKind
	Chunk []byte
	State LoadState
}
