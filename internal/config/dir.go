// Package config provides the piperun configuration directory and file.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// EnvConfigHome overrides the configuration directory.
const EnvConfigHome = "PIPERUN_CONFIG_HOME"

const appName = "piperun"

// Dir returns the piperun configuration directory.
//
// Resolution:
//   - $PIPERUN_CONFIG_HOME if set
//   - $XDG_CONFIG_HOME/piperun if set (any platform)
//   - %AppData%/piperun on Windows
//   - ~/.config/piperun on macOS and Linux
func Dir() string {
	if dir := os.Getenv(EnvConfigHome); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}
