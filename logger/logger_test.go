package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", false, &buf)

	log.Debug().Msg("debug message")
	entry := logEntry(t, &buf)
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "debug message", entry["message"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("warn", false, &buf)

	log.Info().Msg("dropped")
	assert.Empty(t, buf.Bytes())

	log.Warn().Msg("kept")
	assert.NotEmpty(t, buf.Bytes())
}

func TestLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("bogus", false, &buf)

	log.Debug().Msg("dropped")
	assert.Empty(t, buf.Bytes())

	log.Info().Msg("kept")
	assert.NotEmpty(t, buf.Bytes())
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", false, &buf)

	log.Info().
		Str("method", "GET").
		Int("status", 200).
		Dur("elapsed", 1500*time.Millisecond).
		Err(errors.New("boom")).
		Msgf("request %s", "done")

	entry := logEntry(t, &buf)
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "request done", entry["message"])
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", false, &buf).WithFields(map[string]any{"component": "apiclient"})

	log.Info().Msg("hello")

	entry := logEntry(t, &buf)
	assert.Equal(t, "apiclient", entry["component"])
}

func TestNewDefaults(t *testing.T) {
	assert.NotNil(t, New("info", false))
	assert.NotNil(t, New("info", true))
}
