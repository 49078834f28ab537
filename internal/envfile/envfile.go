// Package envfile loads environment variables from .env files.
// Variables already set in the environment take precedence.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultPaths returns the files piperun loads at startup, highest
// precedence first: .env.local and .env in the working directory, then
// env in the config directory.
func DefaultPaths(configDir string) []string {
	paths := []string{".env.local", ".env"}
	if configDir != "" {
		paths = append(paths, filepath.Join(configDir, "env"))
	}
	return paths
}

// Load reads a .env file and sets any variables not already in the
// environment. A variable set to "" counts as unset. Returns nil if the file
// doesn't exist.
func Load(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	for key, value := range vars {
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setting %s from %s: %w", key, path, err)
			}
		}
	}
	return nil
}

// LoadAll loads each path in order, so earlier files win over later ones.
func LoadAll(paths ...string) error {
	for _, path := range paths {
		if err := Load(path); err != nil {
			return err
		}
	}
	return nil
}
