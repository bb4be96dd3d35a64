package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain 'hello', got %q", buf.String())
		}
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected non-nil logger")
		}
	})
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	child := WithLogger(logger, "component", "store")
	child.Info("ready")

	out := buf.String()
	if !strings.Contains(out, "component") || !strings.Contains(out, "store") {
		t.Errorf("expected child logger fields in output, got %q", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, log.ErrorLevel)

	logger.Info("suppressed")
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("info message should be suppressed at error level")
	}

	logger.Error("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("error message should be visible at error level")
	}
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if len(id) != 36 {
			t.Fatalf("expected UUID v4 string of length 36, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
