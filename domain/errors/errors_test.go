package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninesh-dev/ninesh/domain/entities"
)

func TestDuplicateCapabilityError(t *testing.T) {
	err := &DuplicateCapabilityError{Name: "sqlite3_open"}

	assert.Equal(t, `duplicate capability: "sqlite3_open"`, err.Error())

	var dupErr *DuplicateCapabilityError
	require.True(t, errors.As(fmt.Errorf("build: %w", err), &dupErr))
	assert.Equal(t, "sqlite3_open", dupErr.Name)
}

func TestBootstrapError(t *testing.T) {
	baseErr := fmt.Errorf("attempt to call a nil value")
	err := &BootstrapError{Step: "load", Module: "bindings", Err: baseErr}

	assert.Equal(t, "bootstrap load of bindings failed: attempt to call a nil value", err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestBootstrapError_NoModule(t *testing.T) {
	err := &BootstrapError{Step: "create interpreter", Err: fmt.Errorf("out of memory")}

	assert.Equal(t, "bootstrap create interpreter failed: out of memory", err.Error())
}

func TestEvalError(t *testing.T) {
	baseErr := fmt.Errorf("<string>:1: boom\nstack traceback: ...")
	err := &EvalError{Message: "<string>:1: boom", Err: baseErr}

	assert.Equal(t, "<string>:1: boom", err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestHandleError(t *testing.T) {
	h := &entities.Handle{Tag: entities.TagTimer, ID: 7}
	err := &HandleError{Handle: h, Reason: "released"}

	assert.Equal(t, "invalid handle asyncio/steady_timer#7: released", err.Error())
}

func TestArgumentError(t *testing.T) {
	t.Run("positional", func(t *testing.T) {
		err := &ArgumentError{Capability: "sqlite3_step", Index: 1, Want: "storage/sqlite3_stmt", Got: "string"}
		assert.Equal(t, "sqlite3_step: bad argument #1 (storage/sqlite3_stmt expected, got string)", err.Error())
	})

	t.Run("arity", func(t *testing.T) {
		err := &ArgumentError{Capability: "vterm_free", Want: "at most 1 arguments", Got: "3"}
		assert.Equal(t, "vterm_free: at most 1 arguments (got 3)", err.Error())
	})
}
