package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Transport executes one RequestSpec and produces a ResponseEnvelope. It
// performs no classification: any HTTP status is a successful round trip.
// Only transport-level faults (timeouts, connection failures) are errors,
// and they are reported as NetworkError.
//
// Implementations must be safe for concurrent use.
type Transport interface {
	RoundTrip(ctx context.Context, spec *RequestSpec) (*ResponseEnvelope, error)
}

// HTTPTransport is the default Transport backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport with the given per-attempt timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

// NewHTTPTransportWithClient creates a transport over an existing
// http.Client, e.g. one with a custom TLS configuration.
func NewHTTPTransportWithClient(hc *http.Client) *HTTPTransport {
	return &HTTPTransport{client: hc}
}

// RoundTrip implements Transport.
func (t *HTTPTransport) RoundTrip(ctx context.Context, spec *RequestSpec) (*ResponseEnvelope, error) {
	body, contentType, err := encodeBody(spec.Body)
	if err != nil {
		return nil, newConfigError("encode request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, body)
	if err != nil {
		return nil, &ConfigError{Message: "build request for " + spec.URL, Err: err}
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if len(spec.Query) > 0 {
		q := req.URL.Query()
		for k, v := range spec.Query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &ResponseEnvelope{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       raw,
		Elapsed:    time.Since(start),
	}, nil
}

// encodeBody converts the spec body into a reader plus the content type to
// set when none is present. Readers, byte slices, and strings pass through
// unencoded; any other value is JSON-encoded.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "", nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(raw), "application/json", nil
	}
}

// classifyTransportError maps a transport fault onto the error taxonomy.
// Caller-initiated cancellation passes through untouched so it is not
// mistaken for a network fault.
func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return ctx.Err()
	}
	var ne net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &ne) && ne.Timeout())
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	return &NetworkError{Timeout: timeout, Err: err}
}
