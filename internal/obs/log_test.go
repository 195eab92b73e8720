package obs

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Logger().SetOutput(&buf)
	t.Cleanup(func() { Logger().SetOutput(os.Stdout) })
	return &buf
}

func TestInfoWritesJSONLine(t *testing.T) {
	buf := captureLog(t)
	Info("starting tutortrack-api", map[string]any{"store": "memory"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not a JSON line: %q", buf.String())
	}
	if entry["level"] != "info" || entry["msg"] != "starting tutortrack-api" || entry["store"] != "memory" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["ts"] == nil {
		t.Fatal("missing ts")
	}
}

func TestErrorIncludesCause(t *testing.T) {
	buf := captureLog(t)
	Error("open store", errors.New("boom"), nil)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not a JSON line: %q", buf.String())
	}
	if entry["level"] != "error" || entry["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
