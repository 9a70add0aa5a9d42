package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("parse.complete", map[string]any{"parse_id": "p-1", "warnings": 2})
	Error("export.failed", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg", "parse_id"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("missing %q in %v", key, first)
		}
	}
	if first["level"] != "info" || first["msg"] != "parse.complete" {
		t.Fatalf("unexpected entry: %v", first)
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second["level"] != "error" {
		t.Fatalf("expected error level, got %v", second["level"])
	}
}
