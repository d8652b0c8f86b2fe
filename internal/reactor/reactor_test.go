package reactor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_RunWithoutWork(t *testing.T) {
	c := New()
	n, err := c.Run()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContext_NewThenCloseDoesNotBlock(t *testing.T) {
	c := New()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.True(t, c.Closed())
}

func TestContext_PostRunsInOrder(t *testing.T) {
	c := New()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		require.NoError(t, c.Post(func() error {
			order = append(order, i)
			return nil
		}))
	}

	n, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Zero(t, c.Pending())
}

func TestContext_HandlerCanPost(t *testing.T) {
	c := New()
	ran := false
	require.NoError(t, c.Post(func() error {
		return c.Post(func() error {
			ran = true
			return nil
		})
	}))

	n, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, ran)
}

func TestContext_HandlerErrorStopsRun(t *testing.T) {
	c := New()
	boom := errors.New("boom")
	require.NoError(t, c.Post(func() error { return boom }))
	require.NoError(t, c.Post(func() error { return nil }))

	n, err := c.Run()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)

	// The remaining handler is still queued.
	n, err = c.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestContext_Stop(t *testing.T) {
	c := New()
	require.NoError(t, c.Post(func() error {
		c.Stop()
		return nil
	}))
	require.NoError(t, c.Post(func() error { return nil }))

	n, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Run restarts the context on return.
	n, err = c.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestContext_PostAfterClose(t *testing.T) {
	c := New()
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Post(func() error { return nil }), ErrClosed)

	_, err := c.NewTimer()
	assert.ErrorIs(t, err, ErrClosed)

	_, err = c.Run()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTimer_AsyncWaitBlocksRun(t *testing.T) {
	c := New()
	timer, err := c.NewTimer()
	require.NoError(t, err)

	_, err = timer.ExpiresAfter(20 * time.Millisecond)
	require.NoError(t, err)

	var got error = errors.New("not called")
	require.NoError(t, timer.AsyncWait(func(err error) error {
		got = err
		return nil
	}))
	assert.Equal(t, 1, c.Pending())

	start := time.Now()
	n, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, got)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestTimer_Cancel(t *testing.T) {
	c := New()
	timer, err := c.NewTimer()
	require.NoError(t, err)
	_, err = timer.ExpiresAfter(time.Hour)
	require.NoError(t, err)

	var results []error
	for i := 0; i < 2; i++ {
		require.NoError(t, timer.AsyncWait(func(err error) error {
			results = append(results, err)
			return nil
		}))
	}

	assert.Equal(t, 2, timer.Cancel())
	assert.Equal(t, 0, timer.Cancel())

	n, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r, ErrAborted)
	}
}

func TestTimer_ExpiresAfterCancelsPendingWaits(t *testing.T) {
	c := New()
	timer, err := c.NewTimer()
	require.NoError(t, err)
	_, err = timer.ExpiresAfter(time.Hour)
	require.NoError(t, err)

	var first error
	require.NoError(t, timer.AsyncWait(func(err error) error {
		first = err
		return nil
	}))

	cancelled, err := timer.ExpiresAfter(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	_, err = c.Run()
	require.NoError(t, err)
	assert.ErrorIs(t, first, ErrAborted)
}

func TestTimer_UseAfterContextClose(t *testing.T) {
	c := New()
	timer, err := c.NewTimer()
	require.NoError(t, err)
	_, err = timer.ExpiresAfter(time.Hour)
	require.NoError(t, err)
	require.NoError(t, timer.AsyncWait(func(error) error { return nil }))

	require.NoError(t, c.Close())

	assert.ErrorIs(t, timer.AsyncWait(func(error) error { return nil }), ErrClosed)
	_, err = timer.ExpiresAfter(time.Second)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, c.Pending())
}

func TestTimer_CloseDetaches(t *testing.T) {
	c := New()
	timer, err := c.NewTimer()
	require.NoError(t, err)

	timer.Close()
	assert.ErrorIs(t, timer.AsyncWait(func(error) error { return nil }), ErrClosed)

	// The context itself is unaffected.
	require.NoError(t, c.Post(func() error { return nil }))
	n, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestContext_CloseWhileRunning(t *testing.T) {
	c := New()
	timer, err := c.NewTimer()
	require.NoError(t, err)
	_, err = timer.ExpiresAfter(time.Hour)
	require.NoError(t, err)
	require.NoError(t, timer.AsyncWait(func(error) error { return nil }))

	done := make(chan error, 1)
	go func() {
		_, err := c.Run()
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, c.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}
