package envfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeEnv(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// unset clears a variable for the duration of the test.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key) //nolint:errcheck
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	if err := Load("/nonexistent/.env"); err != nil {
		t.Fatalf("expected nil for nonexistent file, got %v", err)
	}
}

func TestLoad_SetsUnsetVars(t *testing.T) {
	path := writeEnv(t, t.TempDir(), ".env.local", "TEST_ENVFILE_A=hello\nexport TEST_ENVFILE_B=\"quoted world\"\n")
	unset(t, "TEST_ENVFILE_A", "TEST_ENVFILE_B")

	if err := Load(path); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("TEST_ENVFILE_A"); got != "hello" {
		t.Errorf("TEST_ENVFILE_A = %q, want %q", got, "hello")
	}
	if got := os.Getenv("TEST_ENVFILE_B"); got != "quoted world" {
		t.Errorf("TEST_ENVFILE_B = %q, want %q", got, "quoted world")
	}
}

func TestLoad_DoesNotOverrideExisting(t *testing.T) {
	path := writeEnv(t, t.TempDir(), ".env", "TEST_ENVFILE_C=from_file\nTEST_ENVFILE_E=from_file\n")
	t.Setenv("TEST_ENVFILE_C", "from_env")
	t.Setenv("TEST_ENVFILE_E", "")

	if err := Load(path); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("TEST_ENVFILE_C"); got != "from_env" {
		t.Errorf("TEST_ENVFILE_C = %q, want %q (env should take precedence)", got, "from_env")
	}
	if got := os.Getenv("TEST_ENVFILE_E"); got != "from_file" {
		t.Errorf("TEST_ENVFILE_E = %q, want %q (empty counts as unset)", got, "from_file")
	}
}

func TestLoad_SkipsComments(t *testing.T) {
	path := writeEnv(t, t.TempDir(), ".env", "# comment\n\nTEST_ENVFILE_D=yes # trailing\n")
	unset(t, "TEST_ENVFILE_D")

	if err := Load(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("TEST_ENVFILE_D"); got != "yes" {
		t.Errorf("TEST_ENVFILE_D = %q, want %q", got, "yes")
	}
}

func TestLoad_ReadError(t *testing.T) {
	if err := Load(t.TempDir()); err == nil {
		t.Error("Load(directory) should fail")
	}
}

func TestLoadAll_EarlierFileWins(t *testing.T) {
	dir := t.TempDir()
	local := writeEnv(t, dir, ".env.local", "PIPERUN_LOG_LEVEL=debug\n")
	shared := writeEnv(t, dir, ".env", "PIPERUN_LOG_LEVEL=error\nTEST_ENVFILE_F=shared\n")
	unset(t, "PIPERUN_LOG_LEVEL", "TEST_ENVFILE_F")

	if err := LoadAll(local, filepath.Join(dir, "missing"), shared); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("PIPERUN_LOG_LEVEL"); got != "debug" {
		t.Errorf("PIPERUN_LOG_LEVEL = %q, want %q", got, "debug")
	}
	if got := os.Getenv("TEST_ENVFILE_F"); got != "shared" {
		t.Errorf("TEST_ENVFILE_F = %q, want %q", got, "shared")
	}
}

func TestDefaultPaths(t *testing.T) {
	got := DefaultPaths("/cfg")
	want := []string{".env.local", ".env", filepath.Join("/cfg", "env")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DefaultPaths() = %q, want %q", got, want)
	}
	if got := DefaultPaths(""); len(got) != 2 {
		t.Errorf("DefaultPaths(\"\") = %q, want only working-directory files", got)
	}
}
