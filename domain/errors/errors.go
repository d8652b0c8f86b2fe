// Package errors provides the domain error types of the runtime host.
// All error types support unwrapping via errors.As() and errors.Is().
package errors

import (
	"fmt"

	"github.com/ninesh-dev/ninesh/domain/entities"
)

// DuplicateCapabilityError is returned when a registry is built with two
// capabilities sharing a name.
type DuplicateCapabilityError struct {
	Name string
}

func (e *DuplicateCapabilityError) Error() string {
	return fmt.Sprintf("duplicate capability: %q", e.Name)
}

// BootstrapError reports a failed bootstrap step. Bootstrap failures are
// always fatal to the host; the error carries enough to print the module
// name and the underlying interpreter message.
type BootstrapError struct {
	Err    error
	Step   string // e.g. "load", "publish", "create interpreter"
	Module string
}

func (e *BootstrapError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("bootstrap %s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("bootstrap %s of %s failed: %v", e.Step, e.Module, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// EvalError is a contained evaluation failure. Message is the error value
// raised inside the interpreter, without traceback.
type EvalError struct {
	Err     error
	Message string
}

func (e *EvalError) Error() string {
	return e.Message
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// HandleError reports a foreign handle that cannot be resolved: released,
// issued by another table, or carrying an unexpected tag.
type HandleError struct {
	Handle *entities.Handle
	Reason string
}

func (e *HandleError) Error() string {
	return fmt.Sprintf("invalid handle %s: %s", e.Handle, e.Reason)
}

// ArgumentError reports a call whose arguments do not match the capability
// signature.
type ArgumentError struct {
	Capability string
	Index      int // 1-based
	Want       string
	Got        string
}

func (e *ArgumentError) Error() string {
	if e.Index == 0 {
		return fmt.Sprintf("%s: %s (got %s)", e.Capability, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: bad argument #%d (%s expected, got %s)", e.Capability, e.Index, e.Want, e.Got)
}
