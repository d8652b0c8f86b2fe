package hostfuncs

import (
	"context"
	"fmt"
	"math"

	"github.com/ninesh-dev/ninesh/domain/entities"
	nerrors "github.com/ninesh-dev/ninesh/domain/errors"
)

// Value is a value crossing the capability boundary. It is one of nil, bool,
// int64, float64, string, *entities.Handle or Callback.
type Value any

// Callback is a script function handed to a capability, invoked later by
// the provider on the interpreter's goroutine.
type Callback func(ctx context.Context, args ...Value) error

// Args are the arguments of a single capability call, already checked
// against the capability's parameter list.
type Args []Value

// Native is the calling convention every capability implements.
type Native func(ctx context.Context, args Args) ([]Value, error)

// Kind is the dynamic type a parameter accepts.
type Kind uint8

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindNumber
	KindBool
	KindHandle
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindHandle:
		return "handle"
	case KindCallback:
		return "function"
	default:
		return "value"
	}
}

// Param describes one positional parameter.
type Param struct {
	Name string
	Kind Kind
	// Tag is checked for KindHandle parameters.
	Tag entities.Tag
	// Optional parameters may be omitted or nil.
	Optional bool
}

// Capability is a named native entry point.
type Capability struct {
	Name   string
	Group  entities.Group
	Params []Param
	Fn     Native
}

// Call checks args against c.Params, normalizing numbers, and invokes Fn.
// Handles whose tag differs from the declared one are rejected before Fn
// runs.
func (c Capability) Call(ctx context.Context, args ...Value) ([]Value, error) {
	checked, err := c.check(args)
	if err != nil {
		return nil, err
	}
	return c.Fn(ctx, checked)
}

func (c Capability) check(args []Value) (Args, error) {
	if len(args) > len(c.Params) {
		// Extra trailing nils are harmless.
		for _, a := range args[len(c.Params):] {
			if a != nil {
				return nil, &nerrors.ArgumentError{
					Capability: c.Name,
					Want:       fmt.Sprintf("at most %d arguments", len(c.Params)),
					Got:        fmt.Sprintf("%d", len(args)),
				}
			}
		}
		args = args[:len(c.Params)]
	}

	out := make(Args, len(c.Params))
	for i, p := range c.Params {
		var v Value
		if i < len(args) {
			v = args[i]
		}
		if v == nil {
			if !p.Optional && p.Kind != KindAny {
				return nil, argError(c.Name, i, p, v)
			}
			continue
		}
		nv, ok := coerce(p, v)
		if !ok {
			return nil, argError(c.Name, i, p, v)
		}
		if p.Kind == KindHandle {
			h := nv.(*entities.Handle)
			if p.Tag != (entities.Tag{}) && h.Tag != p.Tag {
				return nil, &nerrors.HandleError{
					Handle: h,
					Reason: fmt.Sprintf("%s: argument #%d expects %s", c.Name, i+1, p.Tag),
				}
			}
		}
		out[i] = nv
	}
	return out, nil
}

func coerce(p Param, v Value) (Value, bool) {
	switch p.Kind {
	case KindAny:
		return v, true
	case KindString:
		switch x := v.(type) {
		case string:
			return x, true
		case int64, float64:
			return fmt.Sprint(x), true
		}
	case KindInt:
		switch x := v.(type) {
		case int64:
			return x, true
		case float64:
			if x == math.Trunc(x) && !math.IsInf(x, 0) {
				return int64(x), true
			}
		}
	case KindNumber:
		switch x := v.(type) {
		case float64:
			return x, true
		case int64:
			return float64(x), true
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, true
		}
	case KindHandle:
		if h, ok := v.(*entities.Handle); ok && h != nil {
			return h, true
		}
	case KindCallback:
		if cb, ok := v.(Callback); ok && cb != nil {
			return cb, true
		}
	}
	return nil, false
}

func argError(name string, i int, p Param, v Value) error {
	return &nerrors.ArgumentError{
		Capability: name,
		Index:      i + 1,
		Want:       p.Kind.String(),
		Got:        TypeName(v),
	}
}

// TypeName names the dynamic type of v the way scripts see it.
func TypeName(v Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case string:
		return "string"
	case *entities.Handle:
		if x == nil {
			return "nil"
		}
		return x.Tag.String()
	case Callback:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// String returns args[i] or "" when it is absent.
func (a Args) String(i int) string {
	s, _ := a.at(i).(string)
	return s
}

// Int returns args[i] or 0 when it is absent.
func (a Args) Int(i int) int64 {
	n, _ := a.at(i).(int64)
	return n
}

// Number returns args[i] or 0 when it is absent.
func (a Args) Number(i int) float64 {
	f, _ := a.at(i).(float64)
	return f
}

// Handle returns args[i] or nil when it is absent.
func (a Args) Handle(i int) *entities.Handle {
	h, _ := a.at(i).(*entities.Handle)
	return h
}

// Callback returns args[i] or nil when it is absent.
func (a Args) Callback(i int) Callback {
	cb, _ := a.at(i).(Callback)
	return cb
}

func (a Args) at(i int) Value {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}
