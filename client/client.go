package client

import (
	"context"
	"time"
)

// Client executes requests against one configured endpoint under one
// compiled Definition. It is safe for concurrent use: every execution
// works on its own ExecutionContext and the definition is immutable.
type Client struct {
	cfg       Config
	def       *Definition
	transport Transport
	sink      Sink
	clock     Clock
	onRetry   func(kind ErrorKind, attempt int, wait time.Duration)
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTransport overrides the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithSink sets the log sink for dispatch events.
func WithSink(s Sink) Option {
	return func(c *Client) { c.sink = s }
}

// WithClock overrides the clock used for retry waits. Tests use this to
// make waits deterministic.
func WithClock(clk Clock) Option {
	return func(c *Client) { c.clock = clk }
}

// WithOnRetry sets a hook invoked before each retry wait with the raised
// kind, the upcoming attempt number, and the computed wait.
func WithOnRetry(fn func(kind ErrorKind, attempt int, wait time.Duration)) Option {
	return func(c *Client) { c.onRetry = fn }
}

// New creates a Client for the given configuration and definition. A nil
// definition is valid and classifies every response as a success.
func New(cfg Config, def *Definition, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:   cfg,
		def:   def,
		sink:  NopSink{},
		clock: realClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(cfg.Timeout)
	}
	if c.sink == nil {
		c.sink = NopSink{}
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	return c, nil
}

// Outcome is the result of a dispatched execution. Value is non-nil only
// when a recovery handler produced one; Context exposes the request and
// the final response.
type Outcome struct {
	// Value is the handler's return value, if a handler ran.
	Value any
	// Context is the execution context of the final attempt.
	Context *ExecutionContext
}

// Do builds a request from the configured endpoint and executes it. It is
// the common entry point: BuildRequest followed by Execute.
func (c *Client) Do(ctx context.Context, method, path string, opts ...RequestOption) (*Outcome, error) {
	spec, err := c.BuildRequest(method, path, opts...)
	if err != nil {
		return nil, err
	}
	return c.Execute(ctx, spec)
}

// Execute runs one request through the transport, resolves the response
// against the definition's rules, and dispatches the matched action. A
// Raise action with a registered retry policy re-executes the request,
// waiting between attempts, until an attempt stops matching or the
// policy's MaxAttempts is exhausted.
//
// Transport faults surface immediately as NetworkError without consulting
// rules or retry policies.
func (c *Client) Execute(ctx context.Context, spec *RequestSpec) (*Outcome, error) {
	attempt := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ec := newExecutionContext(spec, attempt)
		env, err := c.transport.RoundTrip(ctx, spec)
		if err != nil {
			c.sink.Warn("transport fault", map[string]any{
				"execution_id": ec.ID.String(),
				"method":       spec.Method,
				"url":          spec.URL,
				"attempt":      attempt,
				"error":        err.Error(),
			})
			return nil, err
		}
		ec.Response = env

		action, matched := c.def.Rules().Resolve(env.StatusCode, env.Body)
		if !matched || action.kind == actionSuccess {
			c.sink.Info("request completed", map[string]any{
				"execution_id": ec.ID.String(),
				"method":       spec.Method,
				"url":          spec.URL,
				"status":       env.StatusCode,
				"attempt":      attempt,
				"elapsed_ms":   env.Elapsed.Milliseconds(),
			})
			return &Outcome{Context: ec}, nil
		}

		switch action.kind {
		case actionHandle:
			h := action.handler
			if h == nil {
				// Build guarantees the name resolves.
				h, _ = c.def.handlerNamed(action.handlerName)
			}
			c.sink.Warn("dispatching handler", map[string]any{
				"execution_id": ec.ID.String(),
				"handler":      action.handlerName,
				"status":       env.StatusCode,
				"attempt":      attempt,
			})
			v, herr := h(ctx, ec, c.sink)
			if herr != nil {
				return nil, herr
			}
			return &Outcome{Value: v, Context: ec}, nil

		case actionRaise:
			cerr := &ClassifiedError{Kind: action.errKind, Context: ec}
			policy, ok := c.def.RetryPolicy(action.errKind)
			if !ok || attempt >= policy.MaxAttempts {
				c.sink.Warn("raising classified error", map[string]any{
					"execution_id": ec.ID.String(),
					"kind":         string(action.errKind),
					"status":       env.StatusCode,
					"attempt":      attempt,
				})
				return nil, cerr
			}

			attempt++
			wait := policy.waitFor(attempt)
			c.sink.Warn("retrying after classified failure", map[string]any{
				"execution_id": ec.ID.String(),
				"kind":         string(action.errKind),
				"status":       env.StatusCode,
				"attempt":      attempt,
				"wait_ms":      wait.Milliseconds(),
			})
			if c.onRetry != nil {
				c.onRetry(action.errKind, attempt, wait)
			}
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
	}
}

// sleep waits for the retry delay or until the context is done, whichever
// comes first.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := c.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C():
		return nil
	}
}
