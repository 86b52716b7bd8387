// Package transport executes single HTTP requests for the client. It carries
// no retry or backoff policy; cancellation and timeouts arrive through the
// request context.
package transport

import (
	"context"
	nethttp "net/http"
)

// Transport executes one HTTP exchange. Implementations must return the
// response for any completed exchange, including non-2xx statuses; an error
// is returned only when no response was produced at all.
type Transport interface {
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request represents an HTTP request with all necessary data.
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
}

// RequestInterceptor is called before sending the request.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving the response.
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// IsSuccessStatus checks if a status code represents success (2xx).
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
