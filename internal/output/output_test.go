package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func decodeJSON(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	return result
}

func TestPrinter_Raw(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, false, false).Raw("42\n"); err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if buf.String() != "42\n" {
		t.Errorf("output = %q, want verbatim text", buf.String())
	}

	buf.Reset()
	if err := NewPrinter(&buf, true, false).Raw("42\n"); err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if got := decodeJSON(t, &buf)["output"]; got != "42\n" {
		t.Errorf("output = %v, want %q", got, "42\n")
	}
}

func TestPrinter_Check(t *testing.T) {
	tests := []struct {
		name     string
		json     bool
		ok       bool
		wantText string
	}{
		{name: "human true", ok: true, wantText: "true\n"},
		{name: "human false", ok: false, wantText: "false\n"},
		{name: "json true", json: true, ok: true},
		{name: "json false", json: true, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewPrinter(&buf, tt.json, false).Check(tt.ok); err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if !tt.json {
				if buf.String() != tt.wantText {
					t.Errorf("output = %q, want %q", buf.String(), tt.wantText)
				}
				return
			}
			if got := decodeJSON(t, &buf)["ok"]; got != tt.ok {
				t.Errorf("ok = %v, want %v", got, tt.ok)
			}
		})
	}
}

func TestPrinter_Fields(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)
	if err := printer.Fields(map[string]any{"work_tree": true, "branch": "main"}); err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	want := "branch:    main\nwork_tree: true\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := NewPrinter(&buf, true, false).Fields(map[string]any{"branch": "main"}); err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	if got := decodeJSON(t, &buf)["branch"]; got != "main" {
		t.Errorf("branch = %v, want %q", got, "main")
	}
}

func TestPrinter_List(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, false, false).List("tags", []string{"v1", "v2"}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if buf.String() != "v1\nv2\n" {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	if err := NewPrinter(&buf, true, false).List("tags", nil); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "{\n  \"tags\": []\n}" {
		t.Errorf("nil list should encode as an empty array, got %q", buf.String())
	}
}

func TestPrinter_Error(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true, false).Error(NewUserError("tool not allowed"))
	result := decodeJSON(t, &buf)
	if result["error"] != "tool not allowed" {
		t.Errorf("error = %v", result["error"])
	}
	if code, ok := result["code"].(float64); !ok || int(code) != ExitUserError {
		t.Errorf("code = %v, want %d", result["code"], ExitUserError)
	}

	var out, errOut bytes.Buffer
	NewPrinter(&out, false, false).WithStderr(&errOut).Error(NewSystemError("boom"))
	if out.Len() != 0 {
		t.Errorf("human errors should not go to stdout, got %q", out.String())
	}
	if errOut.String() != "Error: boom\n" {
		t.Errorf("stderr = %q, want %q", errOut.String(), "Error: boom\n")
	}
}

func TestPrinter_Warn(t *testing.T) {
	var out, errOut bytes.Buffer
	NewPrinter(&out, false, false).WithStderr(&errOut).Warn("config %s ignored", "x.ini")
	if errOut.String() != "Warning: config x.ini ignored\n" {
		t.Errorf("stderr = %q", errOut.String())
	}

	out.Reset()
	NewPrinter(&out, true, false).Warn("careful")
	if got := decodeJSON(t, &out)["warning"]; got != "careful" {
		t.Errorf("warning = %v", got)
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Table(
		[]string{"TOOL", "ALLOWED"},
		[][]string{{"run", "yes"}, {"git_tags", "no"}},
	)
	want := "TOOL      ALLOWED\nrun       yes\ngit_tags  no\n"
	if buf.String() != want {
		t.Errorf("table = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	NewPrinter(&buf, false, false).Table(nil, [][]string{{"x"}})
	if buf.Len() != 0 {
		t.Errorf("table without headers should print nothing, got %q", buf.String())
	}
}
