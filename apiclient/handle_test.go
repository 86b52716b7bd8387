package apiclient

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandle(t *testing.T) (*Client, *Handle) {
	t.Helper()

	client, err := New(createTestLogger())
	require.NoError(t, err)

	h := &Handle{
		id:      "test-handle",
		client:  client,
		abortFn: func() {},
		alive:   true,
	}
	client.register(h)
	return client, h
}

func TestHandleCancelWinsOverCompletion(t *testing.T) {
	client, h := newTestHandle(t)

	h.Cancel()

	assert.False(t, h.Alive())
	assert.Equal(t, 0, client.ActiveCount())
	assert.False(t, h.tryComplete(), "completion must lose after cancel")
}

func TestHandleCompletionWinsOverCancel(t *testing.T) {
	_, h := newTestHandle(t)

	require.True(t, h.tryComplete())

	cancelRan := false
	h.onCancel = func() { cancelRan = true }
	h.Cancel()

	assert.False(t, cancelRan, "cancel must be a no-op after completion")
	assert.False(t, h.tryComplete(), "completion claims the handle exactly once")
}

func TestHandleCancelIdempotent(t *testing.T) {
	client, h := newTestHandle(t)

	cancels := 0
	h.onCancel = func() { cancels++ }

	h.Cancel()
	h.Cancel()
	h.Cancel()

	assert.Equal(t, 1, cancels)
	assert.Equal(t, 0, client.ActiveCount())
}

func TestHandleCancelCompleteRace(t *testing.T) {
	// last-writer-wins: exactly one of cancel/complete claims the handle
	for i := 0; i < 100; i++ {
		_, h := newTestHandle(t)

		var wg sync.WaitGroup
		var completed, cancelled bool
		wg.Add(2)

		go func() {
			defer wg.Done()
			completed = h.tryComplete()
		}()
		go func() {
			defer wg.Done()
			h.mu.Lock()
			if !h.terminal {
				h.terminal = true
				h.alive = false
				cancelled = true
			}
			h.mu.Unlock()
		}()

		wg.Wait()
		assert.NotEqual(t, completed, cancelled, "exactly one side must win the race")
	}
}
