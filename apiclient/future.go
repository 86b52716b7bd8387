package apiclient

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"runtime/debug"
	"sync"

	"github.com/dashware/go-apiclient/transport"
)

// Result is the success value of an asynchronous request: the raw response
// payload plus the full response for callers that need headers or status.
type Result struct {
	Data     json.RawMessage
	Response *transport.Response
}

// Future is the canonical asynchronous-result primitive. It settles exactly
// once: with a Result on success, a *RequestError on failure, or a
// cancellation error when the handle is cancelled before completion.
type Future struct {
	done   chan struct{}
	once   sync.Once
	res    *Result
	err    error
	handle *Handle
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(res *Result) {
	f.once.Do(func() {
		f.res = res
		close(f.done)
	})
}

func (f *Future) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx expires.
func (f *Future) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel cancels the underlying request, if still in flight.
func (f *Future) Cancel() {
	if f.handle != nil {
		f.handle.Cancel()
	}
}

// DoAsync issues a request and returns a future for its outcome. The call
// stack is captured before the request is issued so failures are attributed
// to this call site. Caller-supplied callbacks in opts still run; the future
// settles after them.
func (c *Client) DoAsync(path string, opts RequestOptions) *Future {
	f := newFuture()

	if opts.Stack == nil {
		opts.Stack = debug.Stack()
	}

	method := opts.Method
	if method == "" {
		if opts.Data != nil {
			method = nethttp.MethodPost
		} else {
			method = nethttp.MethodGet
		}
	}

	opts.Success = chainSuccess(opts.Success, func(data json.RawMessage, resp *transport.Response) {
		f.resolve(&Result{Data: data, Response: resp})
	})
	opts.Error = chainError(opts.Error, func(err *RequestError) {
		f.reject(err)
	})
	opts.onCancel = func() {
		f.reject(NewCancellationError(method, path))
	}
	// A moved-resource interception completes without success or error; the
	// future must still settle.
	opts.Complete = chainComplete(opts.Complete, func(*transport.Response) {
		f.reject(ErrResourceMoved)
	})

	handle, err := c.Do(path, opts)
	if err != nil {
		f.reject(err)
		return f
	}
	f.handle = handle
	return f
}
