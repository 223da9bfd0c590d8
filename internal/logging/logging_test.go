package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerWritesLeveledJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Debug, &buf, true)

	log.Info("packet decoded", "stream", 3, "idx", 42)

	var decoded map[string]interface{}
	if err := json.Unmarshal(bytes.TrimRight(buf.Bytes(), "\n"), &decoded); err != nil {
		t.Fatalf("expected a single JSON log line, got %q: %v", buf.String(), err)
	}

	if decoded["msg"] != "packet decoded" {
		t.Errorf("msg = %v, want %q", decoded["msg"], "packet decoded")
	}
	if decoded["stream"] != float64(3) {
		t.Errorf("stream = %v, want 3", decoded["stream"])
	}
}

func TestSetLevelSuppressesBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	log := New(Error, &buf, true)

	log.Debug("should not appear")
	log.Info("should not appear either")

	if buf.Len() != 0 {
		t.Fatalf("expected no output below the configured level, got %q", buf.String())
	}

	log.SetLevel(Debug)
	log.Debug("now visible")

	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("expected message after SetLevel(Debug), got %q", buf.String())
	}
}
