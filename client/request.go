package client

import (
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// RequestSpec is the canonical description of one outbound request. It is
// assembled by BuildRequest and immutable afterwards; a retried execution
// reuses the same spec across attempts.
type RequestSpec struct {
	// Method is the HTTP method (GET, POST, PATCH, DELETE, ...).
	Method string
	// URL is the fully resolved absolute URL.
	URL string
	// Headers are the request headers, defaults already merged in.
	Headers map[string]string
	// Query are URL query parameters. May be nil.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string, or any
	// value that will be JSON-encoded by the transport. May be nil.
	Body any
}

// ResponseEnvelope is the result of one transport call. It is produced once
// per attempt and read-only afterwards.
type ResponseEnvelope struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body. May be empty.
	Body []byte
	// Elapsed is the wall-clock duration of the transport call.
	Elapsed time.Duration
}

// IsSuccess returns true if the status code is 2xx.
func (r *ResponseEnvelope) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the response body into a structured value. An empty body
// decodes to nil.
func (r *ResponseEnvelope) JSON() (any, error) {
	if len(r.Body) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ExecutionContext pairs a request with its current response and attempt
// counter. Each attempt owns exactly one context; a retry creates a fresh
// context sharing the original RequestSpec.
type ExecutionContext struct {
	// ID identifies this attempt in log events.
	ID uuid.UUID
	// Request is the spec shared by all attempts of this execution.
	Request *RequestSpec
	// Response is the envelope of this attempt. Nil until the transport
	// call completes.
	Response *ResponseEnvelope
	// Attempt is the 1-based attempt number.
	Attempt int
}

// newExecutionContext creates the context for one attempt.
func newExecutionContext(spec *RequestSpec, attempt int) *ExecutionContext {
	return &ExecutionContext{ID: uuid.New(), Request: spec, Attempt: attempt}
}

// RequestOption configures a single request during BuildRequest.
type RequestOption func(*requestParams)

// requestParams collects per-request settings before the spec is built.
type requestParams struct {
	headers map[string]string
	query   map[string]string
	body    any
	auth    *AuthConfig
}

// WithQuery adds query parameters to the request.
func WithQuery(params map[string]string) RequestOption {
	return func(p *requestParams) { p.query = params }
}

// WithHeaders adds request-specific headers, overriding client defaults of
// the same name.
func WithHeaders(headers map[string]string) RequestOption {
	return func(p *requestParams) { p.headers = headers }
}

// WithBody sets the request body.
func WithBody(body any) RequestOption {
	return func(p *requestParams) { p.body = body }
}

// WithAuth overrides the client-level authentication for this request.
func WithAuth(auth *AuthConfig) RequestOption {
	return func(p *requestParams) { p.auth = auth }
}

// BuildRequest assembles an immutable RequestSpec from the configured
// endpoint and per-request options. Construction is pure: no request is
// sent. It fails with a ConfigError if the endpoint is absent or
// malformed.
func (c *Client) BuildRequest(method, path string, opts ...RequestOption) (*RequestSpec, error) {
	var p requestParams
	for _, opt := range opts {
		opt(&p)
	}

	if method == "" {
		return nil, newConfigError("request method is required")
	}

	resolved, err := resolveURL(c.cfg.BaseURL, path)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(c.cfg.Headers)+len(p.headers))
	for k, v := range c.cfg.Headers {
		headers[k] = v
	}
	for k, v := range p.headers {
		headers[k] = v
	}

	var query map[string]string
	if len(p.query) > 0 {
		query = make(map[string]string, len(p.query))
		for k, v := range p.query {
			query[k] = v
		}
	}

	spec := &RequestSpec{
		Method:  strings.ToUpper(method),
		URL:     resolved,
		Headers: headers,
		Query:   query,
		Body:    p.body,
	}

	// Request-level auth overrides the client default.
	auth := c.cfg.Auth
	if p.auth != nil {
		auth = p.auth
	}
	auth.apply(spec)

	return spec, nil
}

// resolveURL joins a request path onto the configured base endpoint using
// plain concatenation. A path that is already absolute is used as-is.
func resolveURL(base, path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	if base == "" {
		return "", newConfigError("base URL is required to resolve path %q", path)
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &ConfigError{Message: "malformed base URL " + base, Err: err}
	}
	if path == "" {
		return base, nil
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/"), nil
}
