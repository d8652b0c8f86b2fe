package gopherlua

import (
	"context"
	"errors"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	nerrors "github.com/ninesh-dev/ninesh/domain/errors"
	"github.com/ninesh-dev/ninesh/hostfuncs"
)

// HandleTypeName is the registry key of the foreign handle metatable.
const HandleTypeName = "ninesh.handle"

// AdapterConfig holds configuration for the adapter.
type AdapterConfig struct {
	Logger *slog.Logger
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithLogger sets the logger for boundary failures.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = l
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{Logger: slog.Default()}
}

// NewNativeModule builds the table of native capabilities for L. The table
// holds one function per registry name and nothing else.
//
// Example:
//
//	registry, _ := hostfuncs.NewDefaultRegistry(providers)
//	native := gopherlua.NewNativeModule(L, registry)
//	L.SetGlobal("bindings.native", native)
func NewNativeModule(L *lua.LState, registry *hostfuncs.Registry, opts ...AdapterOption) *lua.LTable {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	registerHandleType(L)

	mod := L.NewTable()
	for _, name := range registry.Names() {
		c, _ := registry.Lookup(name)
		L.SetField(mod, name, L.NewFunction(capabilityFunction(c, cfg)))
	}
	return mod
}

// capabilityFunction adapts one capability to a Lua function. Errors are
// raised in the interpreter, where the caller's protected call catches them.
func capabilityFunction(c hostfuncs.Capability, cfg AdapterConfig) lua.LGFunction {
	return func(L *lua.LState) int {
		ctx := L.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		top := L.GetTop()
		args := make([]hostfuncs.Value, top)
		for i := 1; i <= top; i++ {
			v, err := FromLua(L, L.Get(i))
			if err != nil {
				L.RaiseError("%s: bad argument #%d (%v)", c.Name, i, err)
				return 0
			}
			args[i-1] = v
		}

		out, err := c.Call(ctx, args...)
		if err != nil {
			cfg.Logger.DebugContext(ctx, "gopherlua: capability raised", "function", c.Name, "error", err)
			raise(L, c.Name, err)
			return 0
		}
		for _, v := range out {
			L.Push(ToLua(L, v))
		}
		return len(out)
	}
}

// raise reports err in the interpreter. Errors raised by script callbacks
// keep their original value.
func raise(L *lua.LState, name string, err error) {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		L.Error(apiErr.Object, 0)
		return
	}
	var argErr *nerrors.ArgumentError
	if errors.As(err, &argErr) {
		L.RaiseError("%s", err.Error())
		return
	}
	L.RaiseError("%s: %s", name, err.Error())
}
