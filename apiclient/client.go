// Package apiclient issues asynchronous HTTP requests against the dashboard
// backend, tracks them by opaque id, supports cancellation, retries
// privilege-gated requests after interactive re-authentication, and announces
// bulk-operation lifecycle events.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/dashware/go-apiclient/config"
	"github.com/dashware/go-apiclient/events"
	"github.com/dashware/go-apiclient/logger"
	"github.com/dashware/go-apiclient/query"
	"github.com/dashware/go-apiclient/telemetry"
	"github.com/dashware/go-apiclient/transport"
)

// MovedHandler is invoked with the new identifier when a successful response
// signals that the resource's container was renamed. No other callback fires
// for that request besides completion.
type MovedHandler func(newSlug string)

// Client issues requests and owns the registry of in-flight handles. The
// registry's sole mutator is the client; callers never touch it directly.
type Client struct {
	baseURL    string
	log        logger.Logger
	transport  transport.Transport
	reporter   telemetry.Reporter
	recorder   *telemetry.Recorder
	dispatcher events.Dispatcher
	reauth     ReauthHandler
	onMoved    MovedHandler

	mu     sync.Mutex
	active map[string]*Handle
}

// Builder provides a fluent interface for configuring the client.
type Builder struct {
	baseURL       string
	log           logger.Logger
	transport     transport.Transport
	reporter      telemetry.Reporter
	meterProvider metric.MeterProvider
	dispatcher    events.Dispatcher
	reauth        ReauthHandler
	onMoved       MovedHandler
}

// NewBuilder creates a new client builder with default collaborators.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		baseURL: config.DefaultBaseURL,
		log:     log,
	}
}

// FromConfig applies the loaded configuration to the builder.
func (b *Builder) FromConfig(cfg *config.Config) *Builder {
	b.baseURL = cfg.Client.BaseURL
	tb := transport.NewBuilder(b.log).WithTimeout(cfg.Client.Timeout)
	for k, v := range cfg.Client.Headers {
		tb = tb.WithDefaultHeader(k, v)
	}
	b.transport = tb.Build()
	return b
}

// WithBaseURL sets the API prefix prepended to request paths.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.baseURL = baseURL
	return b
}

// WithTransport replaces the HTTP transport.
func (b *Builder) WithTransport(t transport.Transport) *Builder {
	b.transport = t
	return b
}

// WithReporter sets the error-reporting sink.
func (b *Builder) WithReporter(r telemetry.Reporter) *Builder {
	b.reporter = r
	return b
}

// WithMeterProvider sets the meter provider backing request metrics.
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.meterProvider = mp
	return b
}

// WithDispatcher sets the event dispatcher receiving bulk lifecycle events.
func (b *Builder) WithDispatcher(d events.Dispatcher) *Builder {
	b.dispatcher = d
	return b
}

// WithReauthHandler sets the interactive re-authentication flow.
func (b *Builder) WithReauthHandler(h ReauthHandler) *Builder {
	b.reauth = h
	return b
}

// WithMovedHandler sets the renamed-resource redirect collaborator.
func (b *Builder) WithMovedHandler(h MovedHandler) *Builder {
	b.onMoved = h
	return b
}

// Build creates the client with the configured options.
func (b *Builder) Build() (*Client, error) {
	recorder, err := telemetry.NewRecorder(b.meterProvider)
	if err != nil {
		return nil, err
	}

	t := b.transport
	if t == nil {
		t = transport.NewClient(b.log)
	}
	reporter := b.reporter
	if reporter == nil {
		reporter = telemetry.NewLogReporter(b.log)
	}
	dispatcher := b.dispatcher
	if dispatcher == nil {
		dispatcher = events.NoopDispatcher{}
	}

	return &Client{
		baseURL:    b.baseURL,
		log:        b.log,
		transport:  t,
		reporter:   reporter,
		recorder:   recorder,
		dispatcher: dispatcher,
		reauth:     b.reauth,
		onMoved:    b.onMoved,
		active:     make(map[string]*Handle),
	}, nil
}

// New creates a client with default configuration.
func New(log logger.Logger) (*Client, error) {
	return NewBuilder(log).Build()
}

// Do issues a request against path and returns its handle synchronously;
// completion is asynchronous. The only synchronous failure is a
// serialization error, which is reported and re-raised rather than swallowed.
func (c *Client) Do(path string, opts RequestOptions) (*Handle, error) {
	method := opts.Method
	if method == "" {
		if opts.Data != nil {
			method = nethttp.MethodPost
		} else {
			method = nethttp.MethodGet
		}
	}

	var body []byte
	if method != nethttp.MethodGet && opts.Data != nil {
		data, err := json.Marshal(opts.Data)
		if err != nil {
			return nil, c.serializationFailure(path, opts, "cannot serialize request payload", err)
		}
		body = data
	}

	queryString, err := query.Encode(opts.Query)
	if err != nil {
		return nil, c.serializationFailure(path, opts, "cannot serialize query parameters", err)
	}

	id := uuid.NewString()
	c.recorder.Start(id)

	stack := opts.Stack
	if stack == nil {
		stack = debug.Stack()
	}

	fullURL := c.buildURL(path, queryString)
	ctx, abort := context.WithCancel(context.Background())
	handle := &Handle{
		id:       id,
		client:   c,
		abortFn:  abort,
		alive:    true,
		onCancel: opts.onCancel,
	}
	c.register(handle)

	c.log.Debug().
		Str("request_id", id).
		Str("method", method).
		Str("url", fullURL).
		Msg("issuing request")

	go c.execute(ctx, handle, method, path, fullURL, body, stack, opts)

	return handle, nil
}

// Clear cancels every currently active request.
func (c *Client) Clear() {
	c.mu.Lock()
	handles := make([]*Handle, 0, len(c.active))
	for _, h := range c.active {
		handles = append(handles, h)
	}
	c.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}

// ActiveCount returns the number of in-flight requests.
func (c *Client) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

func (c *Client) register(h *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active[h.id] = h
}

func (c *Client) unregister(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, id)
}

// buildURL joins the base URL and path, unless the path already carries the
// prefix, and appends the query with ? or & depending on whether the path
// already has one.
func (c *Client) buildURL(path, queryString string) string {
	full := path
	if !strings.HasPrefix(path, c.baseURL) {
		full = c.baseURL + path
	}
	if queryString != "" {
		if strings.Contains(full, "?") {
			full += "&" + queryString
		} else {
			full += "?" + queryString
		}
	}
	return full
}

// serializationFailure reports an encoding failure and returns it for the
// synchronous error path.
func (c *Client) serializationFailure(path string, opts RequestOptions, msg string, err error) error {
	serr := NewSerializationError(msg, err)
	c.reporter.CaptureError(serr, telemetry.Report{
		Severity: telemetry.SeverityError,
		Extra: map[string]any{
			"path":  path,
			"query": opts.Query,
		},
	})
	return serr
}

// execute runs the transport exchange and routes the outcome. It is the only
// goroutine touching the handle besides Cancel.
func (c *Client) execute(ctx context.Context, h *Handle, method, path, fullURL string, body, stack []byte, opts RequestOptions) {
	resp, err := c.transport.Do(ctx, method, &transport.Request{
		URL:     fullURL,
		Headers: opts.Headers,
		Body:    body,
	})

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Cancel already cleaned up; suppress all delivery.
			return
		}
		c.recorder.Failure(context.Background(), h.id, 0)
		reqErr := &RequestError{Method: method, Path: path, Stack: stack, wrapped: err}
		c.reportFailure(reqErr, path, opts, 0, stack)
		c.deliverError(h, opts, reqErr)
		return
	}

	if transport.IsSuccessStatus(resp.StatusCode) {
		c.recorder.Success(context.Background(), h.id, resp.StatusCode)
		if slug, moved := movedResource(resp); moved && c.onMoved != nil {
			c.deliverMoved(h, opts, resp, slug)
			return
		}
		c.deliverSuccess(h, opts, resp)
		return
	}

	c.recorder.Failure(context.Background(), h.id, resp.StatusCode)
	reqErr := &RequestError{Method: method, Path: path, Status: resp.StatusCode, Body: resp.Body, Stack: stack}
	c.reportFailure(reqErr, path, opts, resp.StatusCode, stack)

	if needsSudo, needsSuperuser := privilegeRequired(resp); (needsSudo || needsSuperuser) && c.reauth != nil {
		c.routeToReauth(h, path, opts, reqErr, needsSudo, needsSuperuser)
		return
	}

	c.deliverError(h, opts, reqErr)
}

// reportFailure mirrors a network-level failure to the observability sink.
// This happens whether or not the caller supplied an error callback.
func (c *Client) reportFailure(reqErr *RequestError, path string, opts RequestOptions, status int, stack []byte) {
	c.reporter.CaptureError(reqErr, telemetry.Report{
		Severity: telemetry.SeverityWarning,
		Tags: map[string]string{
			"http.statusCode": strconv.Itoa(status),
		},
		Extra: map[string]any{
			"path":  path,
			"query": opts.Query,
		},
		Stack: stack,
	})
}

// deliverSuccess invokes the success and completion callbacks if the handle
// is still registered and alive, and removes it from the registry exactly
// once.
func (c *Client) deliverSuccess(h *Handle, opts RequestOptions, resp *transport.Response) {
	if !h.tryComplete() {
		return
	}
	c.unregister(h.id)
	if opts.Success != nil {
		opts.Success(resp.Body, resp)
	}
	if opts.Complete != nil {
		opts.Complete(resp)
	}
}

// deliverError invokes the error and completion callbacks under the same
// liveness rules as deliverSuccess.
func (c *Client) deliverError(h *Handle, opts RequestOptions, reqErr *RequestError) {
	if !h.tryComplete() {
		return
	}
	c.unregister(h.id)
	if opts.Error != nil {
		opts.Error(reqErr)
	}
	var resp *transport.Response
	if reqErr.Status > 0 {
		resp = &transport.Response{StatusCode: reqErr.Status, Body: reqErr.Body}
	}
	if opts.Complete != nil {
		opts.Complete(resp)
	}
}

// deliverMoved routes a relocation marker to the redirect collaborator. The
// success callback does not fire; completion still does.
func (c *Client) deliverMoved(h *Handle, opts RequestOptions, resp *transport.Response, slug string) {
	if !h.tryComplete() {
		return
	}
	c.unregister(h.id)
	c.onMoved(slug)
	if opts.Complete != nil {
		opts.Complete(resp)
	}
}

// routeToReauth hands a privilege-gated failure to the interactive
// re-authentication flow. The original error callback is not invoked on this
// branch; the flow either replays the identical request into the original
// callbacks or forwards the original error on cancellation.
func (c *Client) routeToReauth(h *Handle, path string, opts RequestOptions, reqErr *RequestError, needsSudo, needsSuperuser bool) {
	// The original attempt is terminal either way; completion is deferred to
	// the flow's outcome so it runs exactly once.
	if !h.tryComplete() {
		return
	}
	c.unregister(h.id)

	c.log.Debug().
		Str("request_id", h.id).
		Str("path", path).
		Msg("routing request to re-authentication")

	retryOpts := opts
	c.reauth.Reauthenticate(ReauthRequest{
		NeedsSudo:      needsSudo,
		NeedsSuperuser: needsSuperuser,
		Retry: func() {
			if _, err := c.Do(path, retryOpts); err != nil {
				// Synchronous failures cannot happen on a replay of a request
				// that already serialized once, but never drop the outcome.
				if retryOpts.Error != nil {
					retryOpts.Error(reqErr)
				}
				if retryOpts.Complete != nil {
					retryOpts.Complete(nil)
				}
			}
		},
		Cancel: func() {
			if opts.Error != nil {
				opts.Error(reqErr)
			}
			if opts.Complete != nil {
				opts.Complete(&transport.Response{StatusCode: reqErr.Status, Body: reqErr.Body})
			}
		},
	})
}
