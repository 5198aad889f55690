// Package client implements a request-execution engine for typed API
// clients.
//
// A client type is declared once, during a configuration phase: a Builder
// registers classification rules (see the rules package), named recovery
// handlers, and retry policies, and compiles them into an immutable
// Definition. At request time the Client builds a request from the
// configured endpoint, executes it through a Transport, resolves the
// response against the definition's rules, and dispatches the resolved
// action: success, a recovery handler, or a typed ClassifiedError that is
// optionally retried under a registered RetryPolicy before escalating.
//
// Transport faults (timeouts, connection errors) surface as NetworkError
// and bypass classification and retry entirely. Responses matched by no
// rule are successes: an empty rule set behaves exactly like "always
// success".
package client
