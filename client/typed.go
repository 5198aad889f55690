package client

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

// Get executes a GET request and decodes the response body into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return doTyped[T](ctx, c, http.MethodGet, path, opts...)
}

// Post executes a POST request with the given body and decodes the
// response body into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return doTyped[T](ctx, c, http.MethodPost, path, append(opts, WithBody(body))...)
}

// Put executes a PUT request with the given body and decodes the response
// body into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return doTyped[T](ctx, c, http.MethodPut, path, append(opts, WithBody(body))...)
}

// Patch executes a PATCH request with the given body and decodes the
// response body into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return doTyped[T](ctx, c, http.MethodPatch, path, append(opts, WithBody(body))...)
}

// Delete executes a DELETE request and decodes the response body into T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return doTyped[T](ctx, c, http.MethodDelete, path, opts...)
}

// doTyped runs the request and decodes the final response body. An empty
// body leaves T at its zero value. A handler outcome whose value already
// has type T short-circuits decoding.
func doTyped[T any](ctx context.Context, c *Client, method, path string, opts ...RequestOption) (T, error) {
	var out T
	o, err := c.Do(ctx, method, path, opts...)
	if err != nil {
		return out, err
	}
	if v, ok := o.Value.(T); ok {
		return v, nil
	}
	if o.Context == nil || o.Context.Response == nil || len(o.Context.Response.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(o.Context.Response.Body, &out); err != nil {
		return out, fmt.Errorf("apikit: decode response: %w", err)
	}
	return out, nil
}
