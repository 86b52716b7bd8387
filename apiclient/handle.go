package apiclient

import (
	"context"
	"sync"
)

// Handle wraps one in-flight request. It is owned by the client's registry
// for its lifetime and removed on completion or cancellation.
type Handle struct {
	id      string
	client  *Client
	abortFn context.CancelFunc

	mu       sync.Mutex
	alive    bool
	terminal bool

	onCancel func()
}

// ID returns the generated request id.
func (h *Handle) ID() string { return h.id }

// Alive reports whether the request has neither completed nor been
// cancelled.
func (h *Handle) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alive
}

// Cancel marks the handle not-alive, aborts the underlying transport
// operation and suppresses all further callback delivery. The abort is
// best-effort. Cancel is idempotent and loses the race against a completion
// that already claimed the handle.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.terminal {
		h.mu.Unlock()
		return
	}
	h.terminal = true
	h.alive = false
	h.mu.Unlock()

	h.abortFn()
	h.client.unregister(h.id)
	h.client.recorder.Abort(context.Background(), h.id)
	h.client.log.Debug().Str("request_id", h.id).Msg("request cancelled")

	if h.onCancel != nil {
		h.onCancel()
	}
}

// tryComplete claims the terminal state for the completion path. It returns
// false when the handle was cancelled or already completed, in which case no
// callback may be delivered.
func (h *Handle) tryComplete() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.terminal || !h.alive {
		return false
	}
	h.terminal = true
	h.alive = false
	return true
}
