package hostfuncs

import "fmt"

// PanicError is returned in place of a panic raised by a capability.
type PanicError struct {
	Value any
}

// NewPanicError wraps a recovered panic value.
func NewPanicError(v any) *PanicError {
	return &PanicError{Value: v}
}

func (e *PanicError) Error() string {
	switch v := e.Value.(type) {
	case error:
		return "panic: " + v.Error()
	case string:
		return "panic: " + v
	default:
		return fmt.Sprintf("panic: %v", v)
	}
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
