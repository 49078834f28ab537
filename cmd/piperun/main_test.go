package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/piperun/internal/config"
	"github.com/gorewood/piperun/internal/logging"
	"github.com/gorewood/piperun/internal/mockcli"
	"github.com/gorewood/piperun/internal/output"
)

func TestMain(m *testing.M) {
	mockcli.RunIfRequested()
	os.Exit(m.Run())
}

// execute runs the root command with an isolated config dir.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	if os.Getenv(config.EnvConfigHome) == "" {
		t.Setenv(config.EnvConfigHome, t.TempDir())
	}
	t.Setenv(logging.EnvLevel, "")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	version = "1.2.3"
	t.Cleanup(func() { version = "dev" })

	out, _, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "1.2.3") || !strings.Contains(out, "piperun") {
		t.Errorf("--version output = %q, want name and version", out)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "", "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, expected := range []string{"piperun", "Usage:", "--json", "--color", "--log-level", "run", "git", "serve"} {
		if !strings.Contains(out, expected) {
			t.Errorf("--help output should contain %q: %q", expected, out)
		}
	}
}

func TestRootCommand_JSONFlag_NoSubcommand(t *testing.T) {
	out, _, err := execute(t, "", "--json")
	if err == nil {
		t.Fatal("Expected error when running with --json but no subcommand")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Output should be valid JSON: %v\nOutput: %s", err, out)
	}
	if _, ok := result["error"]; !ok {
		t.Error("JSON output should contain 'error' field")
	}
}

func TestRootCommand_InvalidColor(t *testing.T) {
	_, stderr, err := execute(t, "", "--color", "sometimes", "git", "branch")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Fatalf("exit code = %d, want %d (err %v)", output.GetExitCode(err), output.ExitUserError, err)
	}
	if !strings.Contains(stderr, "invalid --color value") {
		t.Errorf("stderr = %q, want color error", stderr)
	}
}

func TestRootCommand_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piperun.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := execute(t, "", "--config", path, "git", "branch")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Fatalf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
	if !strings.Contains(stderr, "log.level") {
		t.Errorf("stderr = %q, want the invalid field named", stderr)
	}
}

func TestRootCommand_BadLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--log-level", "chatty", "git", "branch")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
}

func TestBuildVersion(t *testing.T) {
	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"dev", "none", "unknown", "dev"},
		{"1.0.0", "abcdef0123", "2026-01-01", "1.0.0 (abcdef0, 2026-01-01)"},
	}
	for _, tt := range tests {
		version, commit, date = tt.version, tt.commit, tt.date
		if got := buildVersion(); got != tt.want {
			t.Errorf("buildVersion() = %q, want %q", got, tt.want)
		}
	}
	version, commit, date = "dev", "none", "unknown"
}
