package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/apikit/client"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
client:
  base_url: "https://api.example.com"
  timeout: 10s
  headers:
    Accept: "application/json"
logging:
  level: "debug"
  format: "json"
retry:
  rate_limit:
    wait: 500ms
    max_attempts: 3
    backoff_factor: 2.0
`)

	var f File
	if err := Load("billing", &f, WithConfigFile(cfgFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.ApplyDefaults()
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	if f.Client.BaseURL != "https://api.example.com" {
		t.Errorf("unexpected base url: %s", f.Client.BaseURL)
	}
	if f.Client.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout: %v", f.Client.Timeout)
	}
	if f.Client.Headers["Accept"] != "application/json" {
		t.Errorf("unexpected headers: %v", f.Client.Headers)
	}
	if f.Logging.Level != "debug" {
		t.Errorf("unexpected level: %s", f.Logging.Level)
	}

	rc, ok := f.Retry["rate_limit"]
	if !ok {
		t.Fatal("expected rate_limit retry config")
	}
	p := rc.Policy()
	if p.Wait != 500*time.Millisecond || p.MaxAttempts != 3 || p.BackoffFactor != 2.0 {
		t.Errorf("unexpected policy: %+v", p)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
client:
  base_url: "https://file.example.com"
`)

	t.Setenv("CLIENT_BASE_URL", "https://env.example.com")

	var f File
	if err := Load("billing", &f, WithConfigFile(cfgFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Client.BaseURL != "https://env.example.com" {
		t.Errorf("expected env to win, got %s", f.Client.BaseURL)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "CLIENT_BASE_URL=https://dotenv.example.com\n")

	var f File
	if err := Load("billing", &f, WithEnvFile(envFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Unsetenv("CLIENT_BASE_URL")

	if f.Client.BaseURL != "https://dotenv.example.com" {
		t.Errorf("expected .env value, got %s", f.Client.BaseURL)
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", "client: [not: valid: yaml")

	var f File
	if err := Load("billing", &f, WithConfigFile(cfgFile)); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestFileValidateRetry(t *testing.T) {
	f := File{
		Client: client.Config{BaseURL: "https://api.example.com"},
		Retry:  map[string]RetryConfig{"k": {MaxAttempts: 0}},
	}
	f.ApplyDefaults()
	if err := f.Validate(); err == nil {
		t.Error("expected error for max_attempts=0")
	}

	f.Retry = map[string]RetryConfig{"k": {MaxAttempts: 2, Wait: -time.Second}}
	if err := f.Validate(); err == nil {
		t.Error("expected error for negative wait")
	}
}

func TestFileApplyRetry(t *testing.T) {
	f := File{
		Retry: map[string]RetryConfig{
			"rate_limit": {Wait: time.Second, MaxAttempts: 3},
		},
	}

	def, err := f.ApplyRetry(client.NewBuilder()).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := def.RetryPolicy("rate_limit")
	if !ok {
		t.Fatal("expected registered retry policy")
	}
	if p.MaxAttempts != 3 || p.Wait != time.Second {
		t.Errorf("unexpected policy: %+v", p)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("CLIENT_BASE_URL")
	want := map[string]bool{
		"client_base_url": false,
		"client.base.url": false,
		"client.base_url": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("expected variant %q in %v", k, variants)
		}
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }
func (f *fakeFS) LoadEnv(string) error    { return nil }

func TestLoadSearchPaths(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{"./config/billing.yml": true}}

	// The fake filesystem reports the standard search path present, so the
	// loader tries to read it and fails; the read error proves the path was
	// picked up.
	var f File
	err := Load("billing", &f, WithFileSystem(fs))
	if err == nil {
		t.Fatal("expected read error for the resolved search path")
	}
}
