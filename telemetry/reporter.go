// Package telemetry provides the observability collaborators of the client:
// a structured error-report sink and OpenTelemetry request metrics.
package telemetry

import (
	"github.com/dashware/go-apiclient/logger"
)

// Severity classifies an error report.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Report is the structured context attached to a captured error.
type Report struct {
	Severity Severity
	// Tags are low-cardinality indexed labels, e.g. http.statusCode.
	Tags map[string]string
	// Extra is free-form context, e.g. the request path and query.
	Extra map[string]any
	// Stack is the call stack captured when the request was issued, so the
	// report points at the caller rather than the completion goroutine.
	Stack []byte
}

// Reporter is the error-reporting sink. Network failures are always mirrored
// here, whether or not the caller installed an error callback.
type Reporter interface {
	CaptureError(err error, report Report)
}

// LogReporter writes error reports to a structured logger.
type LogReporter struct {
	log logger.Logger
}

// NewLogReporter creates a Reporter backed by the given logger.
func NewLogReporter(log logger.Logger) *LogReporter {
	return &LogReporter{log: log}
}

// Ensure LogReporter implements the interface
var _ Reporter = (*LogReporter)(nil)

// CaptureError logs the error with its report context. Warning severity maps
// to the warn level, everything else to the error level.
func (r *LogReporter) CaptureError(err error, report Report) {
	evt := r.log.Error()
	if report.Severity == SeverityWarning {
		evt = r.log.Warn()
	}

	evt = evt.Err(err)
	for k, v := range report.Tags {
		evt = evt.Str("tag."+k, v)
	}
	for k, v := range report.Extra {
		evt = evt.Interface(k, v)
	}
	if len(report.Stack) > 0 {
		evt = evt.Bytes("stack", report.Stack)
	}
	evt.Msg("captured error")
}

// NoopReporter discards every report.
type NoopReporter struct{}

// CaptureError discards the report.
func (NoopReporter) CaptureError(error, Report) {}
