package hostfuncs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHostContext(t *testing.T) {
	hc := NewHostContext(context.Background(), "sqlite3_open")

	require.NotNil(t, hc)
	assert.Equal(t, "sqlite3_open", hc.FunctionName())
}

func TestHostContext_SetGetValue(t *testing.T) {
	hc := NewHostContext(context.Background(), "test_func")

	_, ok := hc.GetValue("key1")
	assert.False(t, ok)

	hc.SetValue("key1", "value1")
	hc.SetValue("key2", 42)

	val, ok := hc.GetValue("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", val)

	val, ok = hc.GetValue("key2")
	assert.True(t, ok)
	assert.Equal(t, 42, val)
}

func TestHostContext_ImplementsContext(t *testing.T) {
	hc := NewHostContext(context.Background(), "readline")

	assert.Nil(t, hc.Done())
	assert.Nil(t, hc.Err())
	assert.Nil(t, hc.Value("nonexistent"))
}

func TestHostContextFrom(t *testing.T) {
	t.Run("wraps plain context", func(t *testing.T) {
		hc := HostContextFrom(context.Background(), "vterm_new")
		assert.Equal(t, "vterm_new", hc.FunctionName())
	})

	t.Run("reuses a context for the same function", func(t *testing.T) {
		original := NewHostContext(context.Background(), "asio_context_run")
		original.SetValue("marker", true)

		returned := HostContextFrom(original, "asio_context_run")
		val, ok := returned.GetValue("marker")
		assert.True(t, ok)
		assert.Equal(t, true, val)
	})

	t.Run("nested call gets its own name", func(t *testing.T) {
		outer := NewHostContext(context.Background(), "asio_context_run")
		inner := HostContextFrom(outer, "sqlite3_step")
		assert.Equal(t, "sqlite3_step", inner.FunctionName())
	})
}

func TestFunctionName(t *testing.T) {
	assert.Equal(t, "unknown", FunctionName(context.Background()))
	assert.Equal(t, "is_slow_mount", FunctionName(NewHostContext(context.Background(), "is_slow_mount")))
}
