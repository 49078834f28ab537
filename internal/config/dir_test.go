package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDir_Default(t *testing.T) {
	t.Setenv(EnvConfigHome, "")
	t.Setenv("XDG_CONFIG_HOME", "")

	dir := Dir()
	if dir == "" {
		t.Fatal("Dir() returned empty string")
	}
	if runtime.GOOS != "windows" && filepath.Base(dir) != "piperun" {
		t.Errorf("Dir() = %q, want path ending in 'piperun'", dir)
	}
}

func TestDir_ExplicitOverride(t *testing.T) {
	t.Setenv(EnvConfigHome, "/custom/path")
	if got := Dir(); got != "/custom/path" {
		t.Errorf("Dir() = %q, want %q", got, "/custom/path")
	}
}

func TestDir_XDGOverride(t *testing.T) {
	t.Setenv(EnvConfigHome, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	if got, want := Dir(), filepath.Join("/xdg/config", "piperun"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}
