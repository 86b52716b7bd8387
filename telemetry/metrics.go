package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/dashware/go-apiclient"

// Recorder records the per-request measurements of the client: one start mark
// per request id, finished by exactly one of Success, Failure or Abort.
type Recorder struct {
	success  metric.Int64Counter
	failure  metric.Int64Counter
	abort    metric.Int64Counter
	duration metric.Float64Histogram

	mu    sync.Mutex
	marks map[string]time.Time
}

// NewRecorder creates a Recorder on the given meter provider. A nil provider
// yields a recorder backed by no-op instruments, so callers never need to
// branch on whether metrics are enabled.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	if provider == nil {
		provider = metricnoop.NewMeterProvider()
	}
	meter := provider.Meter(meterName)

	success, err := meter.Int64Counter(
		"request.success",
		metric.WithDescription("Requests that completed with a 2xx status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create success counter: %w", err)
	}

	failure, err := meter.Int64Counter(
		"request.error",
		metric.WithDescription("Requests that completed with an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	abort, err := meter.Int64Counter(
		"request.abort",
		metric.WithDescription("Requests cancelled before completion"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create abort counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"request.duration",
		metric.WithDescription("Request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Recorder{
		success:  success,
		failure:  failure,
		abort:    abort,
		duration: duration,
		marks:    make(map[string]time.Time),
	}, nil
}

// Start records the start mark for a request id.
func (r *Recorder) Start(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks[id] = time.Now()
}

// Success records a successful completion with the backend status code.
func (r *Recorder) Success(ctx context.Context, id string, status int) {
	elapsed := r.takeMark(id)
	attrs := metric.WithAttributes(attribute.Int("http.status_code", status))
	r.success.Add(ctx, 1, attrs)
	r.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// Failure records an errored completion with the backend status code, or 0
// when the failure happened below the HTTP layer.
func (r *Recorder) Failure(ctx context.Context, id string, status int) {
	elapsed := r.takeMark(id)
	attrs := metric.WithAttributes(attribute.Int("http.status_code", status))
	r.failure.Add(ctx, 1, attrs)
	r.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// Abort records an explicit cancellation.
func (r *Recorder) Abort(ctx context.Context, id string) {
	r.takeMark(id)
	r.abort.Add(ctx, 1)
}

func (r *Recorder) takeMark(id string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	start, ok := r.marks[id]
	if !ok {
		return 0
	}
	delete(r.marks, id)
	return time.Since(start)
}
