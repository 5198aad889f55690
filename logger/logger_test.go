package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kbukum/apikit/client"
)

// A Logger must be usable as the client's dispatch-event sink.
var _ client.Sink = (*Logger)(nil)

func TestNewWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "info")

	log.Info("request completed", map[string]any{"status": 200, "method": "GET"})

	out := buf.String()
	if !strings.Contains(out, `"message":"request completed"`) {
		t.Errorf("expected message in output, got %s", out)
	}
	if !strings.Contains(out, `"status":200`) {
		t.Errorf("expected status field, got %s", out)
	}
	if !strings.Contains(out, `"method":"GET"`) {
		t.Errorf("expected method field, got %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info suppressed at warn level, got %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("expected warn emitted, got %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "info").WithComponent("billing-api")

	log.Info("hello")
	if !strings.Contains(buf.String(), `"component":"billing-api"`) {
		t.Errorf("expected component field, got %s", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "info").WithFields(map[string]any{"env": "test"})

	log.Warn("something odd")
	out := buf.String()
	if !strings.Contains(out, `"env":"test"`) {
		t.Errorf("expected attached field on every event, got %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("expected warn level, got %s", out)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "info").WithError(errTest)

	log.Error("failed")
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("expected error field, got %s", buf.String())
	}
}

var errTest = errBoom{}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	cfg = Config{Level: "loud", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg = Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}
