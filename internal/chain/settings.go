package chain

import (
	"slices"
	"time"

	"github.com/gorewood/piperun/internal/proc"
)

// Setting overrides one field of a chain's run options.
type Setting func(*proc.Options)

// Command sets the argv, coercing tokens as proc.NewCommand does.
func Command(tokens ...any) Setting {
	cmd := proc.NewCommand(tokens...)
	return func(o *proc.Options) {
		o.Command = slices.Clone(cmd)
	}
}

// Dir sets the working directory.
func Dir(dir string) Setting {
	return func(o *proc.Options) {
		o.Dir = dir
	}
}

// Input sets the stdin payload.
func Input(input []byte) Setting {
	input = slices.Clone(input)
	return func(o *proc.Options) {
		o.Input = slices.Clone(input)
	}
}

// InputString sets the stdin payload from text.
func InputString(input string) Setting {
	return Input([]byte(input))
}

// Env appends KEY=VALUE pairs to the child's environment.
func Env(pairs ...string) Setting {
	pairs = slices.Clone(pairs)
	return func(o *proc.Options) {
		o.Env = append(o.Env, pairs...)
	}
}

// Timeout bounds how long the run may take. Zero disables it.
func Timeout(d time.Duration) Setting {
	return func(o *proc.Options) {
		o.Timeout = d
	}
}
