package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/dashware/go-apiclient/logger"
)

// DefaultTimeout is the default request timeout duration.
const DefaultTimeout = 30 * time.Second

// client implements the Transport interface over net/http.
type client struct {
	httpClient           *nethttp.Client
	logger               logger.Logger
	defaultHeaders       map[string]string
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewClient creates a Transport with default configuration.
func NewClient(log logger.Logger) Transport {
	return NewBuilder(log).Build()
}

// Builder provides a fluent interface for configuring the transport.
type Builder struct {
	timeout              time.Duration
	httpClient           *nethttp.Client
	logger               logger.Logger
	defaultHeaders       map[string]string
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewBuilder creates a new transport builder.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		timeout:        DefaultTimeout,
		logger:         log,
		defaultHeaders: make(map[string]string),
	}
}

// WithTimeout sets the per-request timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithHTTPClient replaces the underlying net/http client. Intended for tests
// and for callers that manage their own transport-level settings.
func (b *Builder) WithHTTPClient(hc *nethttp.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithDefaultHeader adds a header sent with every request.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.defaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor.
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.requestInterceptors = append(b.requestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor.
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.responseInterceptors = append(b.responseInterceptors, interceptor)
	return b
}

// Build creates the transport with the configured options.
func (b *Builder) Build() Transport {
	hc := b.httpClient
	if hc == nil {
		hc = &nethttp.Client{Timeout: b.timeout}
	}
	return &client{
		httpClient:           hc,
		logger:               b.logger,
		defaultHeaders:       b.defaultHeaders,
		requestInterceptors:  b.requestInterceptors,
		responseInterceptors: b.responseInterceptors,
	}
}

// Do performs a single HTTP exchange. The response is returned for every
// completed exchange regardless of status code; classification of non-2xx
// statuses belongs to the caller.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if req.URL == "" {
		return nil, fmt.Errorf("request URL cannot be empty")
	}

	httpReq, err := c.buildRequest(ctx, method, req)
	if err != nil {
		return nil, err
	}

	c.logRequest(method, req)
	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if err := c.runResponseInterceptors(ctx, httpReq, httpResp); err != nil {
		return nil, fmt.Errorf("response interceptor failed: %w", err)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
	}
	c.logResponse(resp, time.Since(start))
	return resp, nil
}

// buildRequest constructs an *http.Request, applies headers, and runs request
// interceptors.
func (c *client) buildRequest(ctx context.Context, method string, req *Request) (*nethttp.Request, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range c.defaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if httpReq.Header.Get("Content-Type") == "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, fmt.Errorf("request interceptor failed: %w", err)
		}
	}
	return httpReq, nil
}

func (c *client) runResponseInterceptors(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return err
		}
	}
	return nil
}

func (c *client) logRequest(method string, req *Request) {
	if c.logger == nil {
		return
	}
	logEvent := c.logger.Debug().
		Str("direction", "outbound").
		Str("method", method).
		Str("url", req.URL)

	if len(req.Body) > 0 {
		logEvent = logEvent.Bytes("body", req.Body)
	}

	logEvent.Msg("API request")
}

func (c *client) logResponse(resp *Response, elapsed time.Duration) {
	if c.logger == nil {
		return
	}
	c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("API response")
}
