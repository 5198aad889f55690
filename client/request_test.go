package client

import (
	"strings"
	"testing"
)

func newBuildClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestBuildRequestMergesHeaders(t *testing.T) {
	c := newBuildClient(t, Config{
		BaseURL: "https://api.example.com",
		Headers: map[string]string{"Accept": "application/json", "X-Env": "prod"},
	})

	spec, err := c.BuildRequest("get", "/users", WithHeaders(map[string]string{"X-Env": "staging"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Method != "GET" {
		t.Errorf("expected method uppercased to GET, got %s", spec.Method)
	}
	if spec.Headers["Accept"] != "application/json" {
		t.Errorf("expected default Accept header, got %q", spec.Headers["Accept"])
	}
	if spec.Headers["X-Env"] != "staging" {
		t.Errorf("expected per-request header to win, got %q", spec.Headers["X-Env"])
	}
}

func TestBuildRequestURLJoining(t *testing.T) {
	c := newBuildClient(t, Config{BaseURL: "https://api.example.com/v2/"})

	tests := []struct {
		path string
		want string
	}{
		{"/users/1", "https://api.example.com/v2/users/1"},
		{"users/1", "https://api.example.com/v2/users/1"},
		{"", "https://api.example.com/v2/"},
		{"https://other.example.com/abs", "https://other.example.com/abs"},
	}
	for _, tc := range tests {
		spec, err := c.BuildRequest("GET", tc.path)
		if err != nil {
			t.Fatalf("path %q: unexpected error: %v", tc.path, err)
		}
		if spec.URL != tc.want {
			t.Errorf("path %q: expected %q, got %q", tc.path, tc.want, spec.URL)
		}
	}
}

func TestBuildRequestRequiresMethod(t *testing.T) {
	c := newBuildClient(t, Config{BaseURL: "https://api.example.com"})
	if _, err := c.BuildRequest("", "/users"); !IsConfig(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestResolveURLErrors(t *testing.T) {
	if _, err := resolveURL("", "/users"); !IsConfig(err) {
		t.Errorf("expected config error for empty base, got %v", err)
	}
	if _, err := resolveURL("not-a-url", "/users"); !IsConfig(err) {
		t.Errorf("expected config error for malformed base, got %v", err)
	}
}

func TestBuildRequestBearerAuth(t *testing.T) {
	c := newBuildClient(t, Config{
		BaseURL: "https://api.example.com",
		Auth:    BearerAuth("tok-123"),
	})
	spec, err := c.BuildRequest("GET", "/me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Headers["Authorization"] != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", spec.Headers["Authorization"])
	}
}

func TestBuildRequestBasicAuth(t *testing.T) {
	c := newBuildClient(t, Config{
		BaseURL: "https://api.example.com",
		Auth:    BasicAuth("alice", "secret"),
	})
	spec, err := c.BuildRequest("GET", "/me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(spec.Headers["Authorization"], "Basic ") {
		t.Errorf("expected basic auth header, got %q", spec.Headers["Authorization"])
	}
}

func TestBuildRequestAPIKeyQuery(t *testing.T) {
	c := newBuildClient(t, Config{
		BaseURL: "https://api.example.com",
		Auth:    APIKeyAuthQuery("k-42", "api_key"),
	})
	spec, err := c.BuildRequest("GET", "/data", WithQuery(map[string]string{"page": "2"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Query["api_key"] != "k-42" {
		t.Errorf("expected api key in query, got %v", spec.Query)
	}
	if spec.Query["page"] != "2" {
		t.Errorf("expected caller query preserved, got %v", spec.Query)
	}
}

func TestBuildRequestAuthOverride(t *testing.T) {
	c := newBuildClient(t, Config{
		BaseURL: "https://api.example.com",
		Auth:    BearerAuth("client-token"),
	})
	spec, err := c.BuildRequest("GET", "/me", WithAuth(BearerAuth("request-token")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Headers["Authorization"] != "Bearer request-token" {
		t.Errorf("expected request auth to win, got %q", spec.Headers["Authorization"])
	}
}

func TestBuildRequestIsPure(t *testing.T) {
	c := newBuildClient(t, Config{BaseURL: "https://api.example.com"})
	spec, err := c.BuildRequest("POST", "/orders", WithBody(map[string]int{"qty": 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Body == nil {
		t.Error("expected body to be carried on the spec")
	}
	// Building the same request again yields an equivalent spec.
	again, err := c.BuildRequest("POST", "/orders", WithBody(map[string]int{"qty": 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.URL != spec.URL || again.Method != spec.Method {
		t.Errorf("expected identical specs, got %+v vs %+v", again, spec)
	}
}
