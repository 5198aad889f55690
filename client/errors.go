package client

import (
	"errors"
	"fmt"
)

// ErrorKind names a class of raised, classified failures, e.g. "rate_limit"
// or "client_error". Kinds are declared by Raise actions and referenced by
// retry policies.
type ErrorKind string

// ConfigError reports invalid client configuration: a missing or malformed
// endpoint, an invalid rule registration, or an unresolvable handler or
// predicate name. It is fatal and never retried.
type ConfigError struct {
	// Message describes the misconfiguration.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("apikit: config: %s: %v", e.Message, e.Err)
	}
	return "apikit: config: " + e.Message
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// newConfigError creates a ConfigError with a formatted message.
func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// NetworkError reports a transport-level fault: a timeout or a connection
// failure. It always escalates immediately, bypassing rule classification
// and retry policies.
type NetworkError struct {
	// Timeout reports whether the fault was a timeout rather than a
	// connection failure.
	Timeout bool
	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("apikit: network: timeout: %v", e.Err)
	}
	return fmt.Sprintf("apikit: network: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error { return e.Err }

// ClassifiedError is a typed failure raised by a matched Raise action. It
// carries the full execution context so a caller can inspect the request
// and the last response without re-issuing the call.
type ClassifiedError struct {
	// Kind is the declared error kind of the matched rule.
	Kind ErrorKind
	// Context is the execution context of the final attempt.
	Context *ExecutionContext
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.Context != nil && e.Context.Response != nil {
		return fmt.Sprintf("apikit: %s (HTTP %d)", e.Kind, e.Context.Response.StatusCode)
	}
	return fmt.Sprintf("apikit: %s", e.Kind)
}

// IsConfig checks if an error is a configuration error.
func IsConfig(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsNetwork checks if an error is a transport-level network error.
func IsNetwork(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsTimeout checks if an error is a transport-level timeout.
func IsTimeout(err error) bool {
	var e *NetworkError
	return errors.As(err, &e) && e.Timeout
}

// IsKind checks if an error is a classified error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *ClassifiedError
	return errors.As(err, &e) && e.Kind == kind
}

// AsClassified extracts a ClassifiedError from an error chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var e *ClassifiedError
	ok := errors.As(err, &e)
	return e, ok
}
