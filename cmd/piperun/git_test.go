package main

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gorewood/piperun/internal/output"
)

// gitRepo initializes a repository with one commit on branch "trunk".
func gitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("GIT_AUTHOR_NAME", "piperun")
	t.Setenv("GIT_AUTHOR_EMAIL", "piperun@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "piperun")
	t.Setenv("GIT_COMMITTER_EMAIL", "piperun@example.com")

	dir := t.TempDir()
	out, _, err := execute(t, "", "git", "--cwd", dir, "init")
	if err != nil || out != "true\n" {
		t.Fatalf("git init = %q, %v", out, err)
	}
	for _, args := range [][]string{
		{"symbolic-ref", "HEAD", "refs/heads/trunk"},
		{"commit", "--allow-empty", "-m", "initial"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	return dir
}

func TestGit_Branch(t *testing.T) {
	dir := gitRepo(t)

	out, _, err := execute(t, "", "git", "--cwd", dir, "branch")
	if err != nil || out != "trunk\n" {
		t.Errorf("branch = %q, %v; want trunk", out, err)
	}

	out, _, err = execute(t, "", "--json", "git", "--cwd", dir, "branch")
	if err != nil {
		t.Fatalf("branch --json error = %v", err)
	}
	var result map[string]string
	if err := json.Unmarshal([]byte(out), &result); err != nil || result["branch"] != "trunk" {
		t.Errorf("branch --json = %q, %v", out, err)
	}
}

func TestGit_Tags(t *testing.T) {
	dir := gitRepo(t)

	out, _, err := execute(t, "", "git", "--cwd", dir, "add-tag", "v1.0.0", "-m", "first")
	if err != nil || out != "true\n" {
		t.Fatalf("add-tag = %q, %v", out, err)
	}

	_, stderr, err := execute(t, "", "git", "--cwd", dir, "add-tag", "v1.0.0")
	if output.GetExitCode(err) != output.ExitConflict {
		t.Errorf("duplicate add-tag exit code = %d, want %d", output.GetExitCode(err), output.ExitConflict)
	}
	if stderr != "Error: tag \"v1.0.0\" already exists\n" {
		t.Errorf("stderr = %q", stderr)
	}

	out, _, err = execute(t, "", "git", "--cwd", dir, "tag")
	if err != nil || out != "v1.0.0\n" {
		t.Errorf("tag = %q, %v", out, err)
	}

	out, _, err = execute(t, "", "--json", "git", "--cwd", dir, "tags")
	if err != nil {
		t.Fatalf("tags error = %v", err)
	}
	var result struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil || len(result.Tags) != 1 || result.Tags[0] != "v1.0.0" {
		t.Errorf("tags --json = %q, %v", out, err)
	}
}

func TestGit_Status(t *testing.T) {
	dir := gitRepo(t)

	out, _, err := execute(t, "", "--json", "git", "--cwd", dir, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil || result["clean"] != true {
		t.Errorf("status --json = %q, %v; want clean", out, err)
	}
}

func TestGit_Failures(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, stderr, err := execute(t, "", "git", "--cwd", dir, "tag")
	if output.GetExitCode(err) != output.ExitCommandFailed {
		t.Errorf("tag outside repo exit code = %d, want %d", output.GetExitCode(err), output.ExitCommandFailed)
	}
	if stderr == "" {
		t.Error("expected git's stderr to be reported")
	}

	out, _, err := execute(t, "", "git", "--cwd", dir, "push", "origin", "main")
	if out != "false\n" || output.GetExitCode(err) != output.ExitCommandFailed {
		t.Errorf("push outside repo = %q, exit %d; want false, %d", out, output.GetExitCode(err), output.ExitCommandFailed)
	}
}

func TestGit_MissingBinary(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("PIPERUN_CONFIG_HOME", cfgDir)
	if err := writeConfig(cfgDir, "git:\n  binary: piperun-no-such-git\n"); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "", "git", "branch")
	if output.GetExitCode(err) != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitSystemError)
	}

	out, _, err := execute(t, "", "git", "init")
	if out != "false\n" || output.GetExitCode(err) != output.ExitCommandFailed {
		t.Errorf("init with missing binary = %q, exit %d", out, output.GetExitCode(err))
	}
}
