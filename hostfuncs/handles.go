package hostfuncs

import (
	"sync"

	"github.com/ninesh-dev/ninesh/domain/entities"
	nerrors "github.com/ninesh-dev/ninesh/domain/errors"
)

// HandleTable maps live foreign handles to the native objects behind them.
// Scripts only see *entities.Handle; providers resolve it here. A released
// handle never resolves again, and releasing one handle leaves every other
// entry untouched.
type HandleTable struct {
	mu      sync.Mutex
	next    uint64
	objects map[uint64]entry
}

type entry struct {
	tag entities.Tag
	obj any
}

// NewHandleTable creates an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{objects: make(map[uint64]entry)}
}

// Put stores obj and returns a fresh handle tagged tag.
func (t *HandleTable) Put(tag entities.Tag, obj any) *entities.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.objects[t.next] = entry{tag: tag, obj: obj}
	return &entities.Handle{Tag: tag, ID: t.next}
}

// Get resolves h to its object.
func (t *HandleTable) Get(h *entities.Handle) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := t.lookup(h)
	return e.obj, err
}

// Release removes h and returns the object it referred to.
func (t *HandleTable) Release(h *entities.Handle) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	delete(t.objects, h.ID)
	return e.obj, nil
}

func (t *HandleTable) lookup(h *entities.Handle) (entry, error) {
	if h == nil {
		return entry{}, &nerrors.HandleError{Reason: "nil handle"}
	}
	e, ok := t.objects[h.ID]
	if !ok {
		return entry{}, &nerrors.HandleError{Handle: h, Reason: "released or unknown"}
	}
	if e.tag != h.Tag {
		return entry{}, &nerrors.HandleError{Handle: h, Reason: "tag mismatch, issued as " + e.tag.String()}
	}
	return e, nil
}

// ReleaseWhere drops every live handle whose object matches fn and returns
// how many were dropped.
func (t *HandleTable) ReleaseWhere(fn func(tag entities.Tag, obj any) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, e := range t.objects {
		if fn(e.tag, e.obj) {
			delete(t.objects, id)
			n++
		}
	}
	return n
}

// Len returns the number of live handles.
func (t *HandleTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.objects)
}

// resolve is Get with a typed result.
func resolve[T any](t *HandleTable, h *entities.Handle) (T, error) {
	var zero T
	obj, err := t.Get(h)
	if err != nil {
		return zero, err
	}
	v, ok := obj.(T)
	if !ok {
		return zero, &nerrors.HandleError{Handle: h, Reason: "unexpected native object"}
	}
	return v, nil
}
