package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// eventAdapter adapts zerolog events to the LogEvent interface.
type eventAdapter struct {
	event *zerolog.Event
}

// Msg logs the message.
func (a *eventAdapter) Msg(msg string) {
	a.event.Msg(msg)
}

// Msgf logs a formatted message.
func (a *eventAdapter) Msgf(format string, args ...any) {
	a.event.Msgf(format, args...)
}

// Err adds an error to the log event.
func (a *eventAdapter) Err(err error) LogEvent {
	return &eventAdapter{event: a.event.Err(err)}
}

// Str adds a string field to the log event.
func (a *eventAdapter) Str(key, value string) LogEvent {
	return &eventAdapter{event: a.event.Str(key, value)}
}

// Int adds an integer field to the log event.
func (a *eventAdapter) Int(key string, value int) LogEvent {
	return &eventAdapter{event: a.event.Int(key, value)}
}

// Dur adds a duration field to the log event.
func (a *eventAdapter) Dur(key string, d time.Duration) LogEvent {
	return &eventAdapter{event: a.event.Dur(key, d)}
}

// Interface adds an arbitrary field to the log event.
func (a *eventAdapter) Interface(key string, i any) LogEvent {
	return &eventAdapter{event: a.event.Interface(key, i)}
}

// Bytes adds a byte slice field to the log event.
func (a *eventAdapter) Bytes(key string, val []byte) LogEvent {
	return &eventAdapter{event: a.event.Bytes(key, val)}
}
