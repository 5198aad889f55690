package client

// Sink receives structured log events emitted during dispatch: one event
// per resolved action and per retry wait. The logger package's Logger
// satisfies this interface directly.
type Sink interface {
	// Info logs an informational event with optional structured fields.
	Info(msg string, fields ...map[string]any)
	// Warn logs a warning event with optional structured fields.
	Warn(msg string, fields ...map[string]any)
}

// NopSink discards all events. It is the default sink when none is
// configured.
type NopSink struct{}

// Info implements Sink.
func (NopSink) Info(string, ...map[string]any) {}

// Warn implements Sink.
func (NopSink) Warn(string, ...map[string]any) {}
