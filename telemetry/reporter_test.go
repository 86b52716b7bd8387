package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashware/go-apiclient/logger"
)

func captureReport(t *testing.T, severity Severity) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	reporter := NewLogReporter(logger.NewWithOutput("debug", false, &buf))

	reporter.CaptureError(errors.New("request failed"), Report{
		Severity: severity,
		Tags:     map[string]string{"http.statusCode": "500"},
		Extra:    map[string]any{"path": "/projects/"},
		Stack:    []byte("stack-frames"),
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogReporterWarningSeverity(t *testing.T) {
	entry := captureReport(t, SeverityWarning)

	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "request failed", entry["error"])
	assert.Equal(t, "500", entry["tag.http.statusCode"])
	assert.Equal(t, "/projects/", entry["path"])
	assert.Equal(t, "captured error", entry["message"])
}

func TestLogReporterErrorSeverity(t *testing.T) {
	entry := captureReport(t, SeverityError)

	assert.Equal(t, "error", entry["level"])
}

func TestNoopReporter(t *testing.T) {
	assert.NotPanics(t, func() {
		NoopReporter{}.CaptureError(errors.New("ignored"), Report{})
	})
}
