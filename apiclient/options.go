package apiclient

import (
	"encoding/json"

	"github.com/dashware/go-apiclient/transport"
)

// SuccessFunc receives the response payload and the full response.
type SuccessFunc func(data json.RawMessage, resp *transport.Response)

// ErrorFunc receives the failure of a completed request.
type ErrorFunc func(err *RequestError)

// CompleteFunc runs after either outcome. The response is nil when the
// failure happened below the HTTP layer.
type CompleteFunc func(resp *transport.Response)

// RequestOptions is the configuration bag of a single request.
type RequestOptions struct {
	// Method is one of GET, POST, PUT or DELETE. When empty it defaults to
	// POST if Data is set and GET otherwise.
	Method string
	// Data is JSON-serialized as the request body for non-GET methods.
	Data any
	// Query holds the query parameters; see query.Encode for the scheme.
	Query map[string]any
	// Headers are merged over the transport's default headers.
	Headers map[string]string
	// Stack optionally carries a pre-captured call stack so failure reports
	// point at the originating caller. Captured at issue time when nil.
	Stack []byte

	Success  SuccessFunc
	Error    ErrorFunc
	Complete CompleteFunc

	// onCancel lets the future surface cancellation; caller callbacks stay
	// suppressed on cancel.
	onCancel func()
}

// chainSuccess composes success callbacks; they run in order, nils skipped.
func chainSuccess(fns ...SuccessFunc) SuccessFunc {
	return func(data json.RawMessage, resp *transport.Response) {
		for _, fn := range fns {
			if fn != nil {
				fn(data, resp)
			}
		}
	}
}

// chainError composes error callbacks; they run in order, nils skipped.
func chainError(fns ...ErrorFunc) ErrorFunc {
	return func(err *RequestError) {
		for _, fn := range fns {
			if fn != nil {
				fn(err)
			}
		}
	}
}

// chainComplete composes completion callbacks; they run in order, nils
// skipped.
func chainComplete(fns ...CompleteFunc) CompleteFunc {
	return func(resp *transport.Response) {
		for _, fn := range fns {
			if fn != nil {
				fn(resp)
			}
		}
	}
}
