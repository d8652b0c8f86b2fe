package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/ninesh-dev/ninesh/domain/entities"
	nerrors "github.com/ninesh-dev/ninesh/domain/errors"
	"github.com/ninesh-dev/ninesh/host/bundled"
	"github.com/ninesh-dev/ninesh/hostfuncs"
	"github.com/ninesh-dev/ninesh/infrastructure/gopherlua"
)

// Names of the bootstrap modules and globals.
const (
	LanguageModule = "fennel"
	NativeModule   = "bindings.native"
	BindingsModule = "bindings"
	BootModule     = "boot"

	// BootGlobal is the global the boot module is published under.
	BootGlobal = "Boot"
)

// ErrClosed is returned by evaluations on a closed Host.
var ErrClosed = errors.New("host: closed")

// Host owns one interpreter instance and the bootstrap module records.
type Host struct {
	L        *lua.LState
	registry *hostfuncs.Registry
	sources  map[string][]byte
	steps    []*step
	stderr   io.Writer
	exit     func(int)
	logger   *slog.Logger

	closeOnce sync.Once
	closed    bool
}

// step is a module record plus where its value is published.
type step struct {
	rec *entities.ModuleRecord

	global string // global binding; empty for none
	loaded bool   // publish into package.loaded

	// injectNative passes the native module as the chunk argument.
	injectNative bool
}

// New creates the interpreter and runs the bootstrap sequence. Any failure
// is returned as a *errors.BootstrapError and leaves no interpreter behind.
func New(ctx context.Context, opts ...Option) (*Host, error) {
	h := &Host{
		sources: bundled.Sources(),
		stderr:  os.Stderr,
		exit:    os.Exit,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.registry == nil {
		reg, err := hostfuncs.NewDefaultRegistry(hostfuncs.Providers{Logger: h.logger})
		if err != nil {
			return nil, &nerrors.BootstrapError{Step: "registry", Module: NativeModule, Err: err}
		}
		h.registry = reg
	}

	h.steps = []*step{
		{
			rec:    &entities.ModuleRecord{Name: LanguageModule, Kind: entities.ModuleChunk, Chunk: h.sources[LanguageModule]},
			global: LanguageModule,
			loaded: true,
		},
		{
			rec:    &entities.ModuleRecord{Name: NativeModule, After: LanguageModule, Kind: entities.ModuleNative},
			global: NativeModule,
			loaded: true,
		},
		{
			rec:          &entities.ModuleRecord{Name: BindingsModule, After: NativeModule, Kind: entities.ModuleChunk, Chunk: h.sources[BindingsModule]},
			loaded:       true,
			injectNative: true,
		},
		{
			rec:    &entities.ModuleRecord{Name: BootModule, After: BindingsModule, Kind: entities.ModuleChunk, Chunk: h.sources[BootModule]},
			global: BootGlobal,
		},
	}

	h.L = lua.NewState()
	if err := h.bootstrap(ctx); err != nil {
		h.L.Close()
		return nil, err
	}
	return h, nil
}

func (h *Host) bootstrap(ctx context.Context) error {
	var native lua.LValue = lua.LNil
	for _, s := range h.steps {
		if err := h.checkOrder(s.rec); err != nil {
			return err
		}

		var value lua.LValue
		switch s.rec.Kind {
		case entities.ModuleNative:
			native = gopherlua.NewNativeModule(h.L, h.registry, gopherlua.WithLogger(h.logger))
			value = native
		default:
			var args []lua.LValue
			if s.injectNative {
				args = append(args, native)
			}
			v, err := h.execute(s.rec, args...)
			if err != nil {
				h.transition(ctx, s.rec, entities.Failed)
				return err
			}
			value = v
		}
		h.transition(ctx, s.rec, entities.Loaded)

		if err := h.publish(s, value); err != nil {
			h.transition(ctx, s.rec, entities.Failed)
			return err
		}
		h.transition(ctx, s.rec, entities.Registered)
	}
	return nil
}

// checkOrder fails unless the declared predecessor of rec is Registered.
func (h *Host) checkOrder(rec *entities.ModuleRecord) error {
	if rec.After == "" {
		return nil
	}
	for _, s := range h.steps {
		if s.rec.Name == rec.After {
			if s.rec.State == entities.Registered {
				return nil
			}
			return &nerrors.BootstrapError{
				Step:   "order",
				Module: rec.Name,
				Err:    fmt.Errorf("predecessor %s is %s", rec.After, s.rec.State),
			}
		}
	}
	return &nerrors.BootstrapError{
		Step:   "order",
		Module: rec.Name,
		Err:    fmt.Errorf("unknown predecessor %s", rec.After),
	}
}

// execute parses the chunk of rec and runs it once with args, returning its
// first result.
func (h *Host) execute(rec *entities.ModuleRecord, args ...lua.LValue) (lua.LValue, error) {
	if len(rec.Chunk) == 0 {
		return nil, &nerrors.BootstrapError{Step: "load", Module: rec.Name, Err: errors.New("no module source")}
	}

	fn, err := h.L.Load(bytes.NewReader(rec.Chunk), rec.Name)
	if err != nil {
		return nil, &nerrors.BootstrapError{
			Step:   "load",
			Module: rec.Name,
			Err:    &nerrors.EvalError{Message: err.Error(), Err: err},
		}
	}

	h.L.Push(fn)
	for _, a := range args {
		h.L.Push(a)
	}
	if err := h.L.PCall(len(args), 1, nil); err != nil {
		return nil, &nerrors.BootstrapError{
			Step:   "execute",
			Module: rec.Name,
			Err:    &nerrors.EvalError{Message: errorMessage(err), Err: err},
		}
	}
	v := h.L.Get(-1)
	h.L.Pop(1)
	return v, nil
}

func (h *Host) publish(s *step, value lua.LValue) error {
	if s.loaded {
		loaded, ok := h.L.GetField(h.L.Get(lua.RegistryIndex), "_LOADED").(*lua.LTable)
		if !ok {
			return &nerrors.BootstrapError{Step: "publish", Module: s.rec.Name, Err: errors.New("package.loaded is missing")}
		}
		stored := value
		if stored == lua.LNil {
			// Same as require for a chunk returning nothing.
			stored = lua.LTrue
		}
		h.L.SetField(loaded, s.rec.Name, stored)
	}
	if s.global != "" {
		h.L.SetGlobal(s.global, value)
	}
	return nil
}

func (h *Host) transition(ctx context.Context, rec *entities.ModuleRecord, state entities.LoadState) {
	h.logger.DebugContext(ctx, "host: module state", "module", rec.Name, "from", rec.State.String(), "to", state.String())
	rec.State = state
}

// Eval evaluates script with the language module's eval entry point in a
// protected call. Side effects committed before an error are kept.
func (h *Host) Eval(ctx context.Context, script string) error {
	fn, err := h.entry("eval")
	if err != nil {
		return err
	}
	return h.call(ctx, fn, lua.LString(script))
}

// Evaluate runs Eval and reports a failure on the diagnostics stream. With
// failFast the process is terminated with status 1; otherwise the error is
// discarded.
func (h *Host) Evaluate(ctx context.Context, script string, failFast bool) {
	h.report(h.Eval(ctx, script), failFast)
}

// EvaluateFile evaluates the file at path with the language module's dofile
// entry point, reporting failures like Evaluate.
func (h *Host) EvaluateFile(ctx context.Context, path string, failFast bool) {
	fn, err := h.entry("dofile")
	if err == nil {
		err = h.call(ctx, fn, lua.LString(path))
	}
	h.report(err, failFast)
}

func (h *Host) report(err error, failFast bool) {
	if err == nil {
		return
	}
	fmt.Fprintf(h.stderr, "Error executing script: %s\n", err)
	if failFast {
		h.exit(1)
	}
}

// entry returns the named function of the language module global.
func (h *Host) entry(name string) (*lua.LFunction, error) {
	if h.closed {
		return nil, ErrClosed
	}
	mod, ok := h.L.GetGlobal(LanguageModule).(*lua.LTable)
	if !ok {
		return nil, &nerrors.EvalError{Message: fmt.Sprintf("%s is not loaded", LanguageModule)}
	}
	fn, ok := h.L.GetField(mod, name).(*lua.LFunction)
	if !ok {
		return nil, &nerrors.EvalError{Message: fmt.Sprintf("%s.%s is not a function", LanguageModule, name)}
	}
	return fn, nil
}

func (h *Host) call(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) error {
	if ctx != nil {
		h.L.SetContext(ctx)
		defer h.L.RemoveContext()
	}
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		return &nerrors.EvalError{Message: errorMessage(err), Err: err}
	}
	return nil
}

// Modules returns a snapshot of the bootstrap module records.
func (h *Host) Modules() []entities.ModuleRecord {
	out := make([]entities.ModuleRecord, len(h.steps))
	for i, s := range h.steps {
		out[i] = *s.rec
	}
	return out
}

// Registry returns the capability registry published as bindings.native.
func (h *Host) Registry() *hostfuncs.Registry {
	return h.registry
}

// Close destroys the interpreter. It is safe to call more than once.
func (h *Host) Close() error {
	h.closeOnce.Do(func() {
		h.closed = true
		h.L.Close()
	})
	return nil
}

// errorMessage returns the raised value of an interpreter error without the
// traceback.
func errorMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return apiErr.Object.String()
	}
	return err.Error()
}
