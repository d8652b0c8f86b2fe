package hostfuncs

import (
	"context"
	"time"

	"github.com/ninesh-dev/ninesh/domain/entities"
	"github.com/ninesh-dev/ninesh/internal/reactor"
)

// AsyncBundle returns the async I/O capabilities over internal/reactor.
//
// asio_context_run blocks until the context has no pending work. Handlers,
// including script callbacks passed to asio_timer_async_wait, run on the
// caller of asio_context_run.
//
// Deleting a context leaves the handles of its timers live; using one
// afterwards raises an error and never disturbs other handles.
func AsyncBundle(handles *HandleTable) Bundle {
	actx := Param{Name: "context", Kind: KindHandle, Tag: entities.TagAsyncContext}
	timer := Param{Name: "timer", Kind: KindHandle, Tag: entities.TagTimer}
	a := &asyncIO{handles: handles}

	return staticBundle{
		asyncCap("asio_context_new", a.contextNew),
		asyncCap("asio_context_run", a.contextRun, actx),
		asyncCap("asio_context_stop", a.contextStop, actx),
		asyncCap("asio_context_delete", a.contextDelete, actx),
		asyncCap("asio_timer_new", a.timerNew, actx),
		asyncCap("asio_timer_expires_after", a.timerExpiresAfter, timer, Param{Name: "ms", Kind: KindInt}),
		asyncCap("asio_timer_async_wait", a.timerAsyncWait, timer, Param{Name: "handler", Kind: KindCallback}),
		asyncCap("asio_timer_cancel", a.timerCancel, timer),
		asyncCap("asio_timer_delete", a.timerDelete, timer),
	}
}

func asyncCap(name string, fn Native, params ...Param) Capability {
	return Capability{Name: name, Group: entities.GroupAsyncIO, Params: params, Fn: fn}
}

type asyncIO struct {
	handles *HandleTable
}

func (a *asyncIO) contextNew(context.Context, Args) ([]Value, error) {
	return []Value{a.handles.Put(entities.TagAsyncContext, reactor.New())}, nil
}

func (a *asyncIO) contextRun(_ context.Context, args Args) ([]Value, error) {
	c, err := resolve[*reactor.Context](a.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	n, err := c.Run()
	if err != nil {
		return nil, err
	}
	return []Value{int64(n)}, nil
}

func (a *asyncIO) contextStop(_ context.Context, args Args) ([]Value, error) {
	c, err := resolve[*reactor.Context](a.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	c.Stop()
	return nil, nil
}

func (a *asyncIO) contextDelete(_ context.Context, args Args) ([]Value, error) {
	obj, err := a.handles.Release(args.Handle(0))
	if err != nil {
		return nil, err
	}
	return nil, obj.(*reactor.Context).Close()
}

func (a *asyncIO) timerNew(_ context.Context, args Args) ([]Value, error) {
	c, err := resolve[*reactor.Context](a.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	t, err := c.NewTimer()
	if err != nil {
		return nil, err
	}
	return []Value{a.handles.Put(entities.TagTimer, t)}, nil
}

func (a *asyncIO) timerExpiresAfter(_ context.Context, args Args) ([]Value, error) {
	t, err := resolve[*reactor.Timer](a.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	n, err := t.ExpiresAfter(time.Duration(args.Int(1)) * time.Millisecond)
	if err != nil {
		return nil, err
	}
	return []Value{int64(n)}, nil
}

// timerAsyncWait calls the handler with nil on expiry or with the abort
// message when the wait is cancelled.
func (a *asyncIO) timerAsyncWait(ctx context.Context, args Args) ([]Value, error) {
	t, err := resolve[*reactor.Timer](a.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	cb := args.Callback(1)
	ctx = context.WithoutCancel(ctx)
	return nil, t.AsyncWait(func(werr error) error {
		if werr != nil {
			return cb(ctx, werr.Error())
		}
		return cb(ctx, nil)
	})
}

func (a *asyncIO) timerCancel(_ context.Context, args Args) ([]Value, error) {
	t, err := resolve[*reactor.Timer](a.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	return []Value{int64(t.Cancel())}, nil
}

func (a *asyncIO) timerDelete(_ context.Context, args Args) ([]Value, error) {
	obj, err := a.handles.Release(args.Handle(0))
	if err != nil {
		return nil, err
	}
	obj.(*reactor.Timer).Close()
	return nil, nil
}
