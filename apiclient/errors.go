package apiclient

import (
	"errors"
	"fmt"
)

// ClientError represents the different kinds of errors the client surfaces.
type ClientError interface {
	error
	Kind() ErrorKind
}

// ErrorKind defines the category of client error.
type ErrorKind string

const (
	// SerializationError means the query parameters or payload could not be
	// encoded. It is fatal and surfaces synchronously from Do.
	SerializationError ErrorKind = "serialization"
	// TransportError is a network-level or non-2xx failure, delivered
	// asynchronously through the error callback or the future.
	TransportError ErrorKind = "transport"
	// CancellationError means the caller cancelled the request before
	// completion.
	CancellationError ErrorKind = "cancellation"
)

// serializationError wraps an encoding failure.
type serializationError struct {
	message string
	wrapped error
}

func (e *serializationError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("serialization error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("serialization error: %s", e.message)
}

func (e *serializationError) Kind() ErrorKind { return SerializationError }

func (e *serializationError) Unwrap() error { return e.wrapped }

// NewSerializationError creates a new serialization error.
func NewSerializationError(message string, wrapped error) ClientError {
	return &serializationError{message: message, wrapped: wrapped}
}

// RequestError is the failure value of a completed request. It carries enough
// context to attribute the failure to its call site despite asynchronous
// completion.
type RequestError struct {
	// Method and Path identify the request that failed.
	Method string
	Path   string
	// Status is the backend status code, or 0 for failures below the HTTP
	// layer.
	Status int
	// Body is the raw response body, if any.
	Body []byte
	// Stack is the call stack captured when the request was issued.
	Stack   []byte
	wrapped error
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.Status)
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.wrapped)
	}
	return fmt.Sprintf("%s %s failed", e.Method, e.Path)
}

// Kind identifies a RequestError as a transport failure.
func (e *RequestError) Kind() ErrorKind { return TransportError }

func (e *RequestError) Unwrap() error { return e.wrapped }

// cancellationError marks a request cancelled before completion.
type cancellationError struct {
	method string
	path   string
}

func (e *cancellationError) Error() string {
	return fmt.Sprintf("%s %s cancelled", e.method, e.path)
}

func (e *cancellationError) Kind() ErrorKind { return CancellationError }

// NewCancellationError creates a new cancellation error.
func NewCancellationError(method, path string) ClientError {
	return &cancellationError{method: method, path: path}
}

// ErrResourceMoved signals that a successful response carried a relocation
// marker and was routed to the redirect collaborator instead of the normal
// success path. It is a signal, not a failure.
var ErrResourceMoved = errors.New("resource moved; redirect handler invoked")

// IsErrorKind checks if an error is of a specific kind.
func IsErrorKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind() == kind
	}
	return false
}
