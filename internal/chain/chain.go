// Package chain composes lazy process runs with result transformations.
//
// A Chain holds pending run options and a transformation from the raw run
// outcome to a result of type T. Building a chain never runs anything;
// Run performs exactly one call into the runner and then applies the
// accumulated transformation:
//
//	branch := chain.Pipe(chain.Text, chain.Trim)(chain.Cmd("git", "branch", "--show-current"))
//	name, err := branch.WithDir(repo).Run(ctx)
//
// Every builder returns a new Chain and leaves its receiver untouched.
package chain

import (
	"context"

	"github.com/gorewood/piperun/internal/proc"
)

// Chain is an immutable, not-yet-executed process run.
type Chain[T any] struct {
	opts    proc.Options
	runner  proc.Runner
	resolve func(ctx context.Context, out []byte, err error) (T, error)
}

// New returns a chain with no command whose result is raw stdout.
// A command must be set before it can run.
func New() Chain[[]byte] {
	return Chain[[]byte]{resolve: rawOutput}
}

// Cmd returns a chain that runs the given tokens and yields raw stdout.
func Cmd(tokens ...any) Chain[[]byte] {
	return New().WithCommand(tokens...)
}

func rawOutput(_ context.Context, out []byte, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Options returns a copy of the chain's pending run options.
func (c Chain[T]) Options() proc.Options {
	return c.opts.Clone()
}

// With returns a copy of c with settings applied to its options.
// The transformation is left untouched.
func (c Chain[T]) With(settings ...Setting) Chain[T] {
	next := c
	next.opts = c.opts.Clone()
	for _, setting := range settings {
		setting(&next.opts)
	}
	return next
}

// WithCommand replaces the command.
func (c Chain[T]) WithCommand(tokens ...any) Chain[T] {
	return c.With(Command(tokens...))
}

// WithDir sets the working directory.
func (c Chain[T]) WithDir(dir string) Chain[T] {
	return c.With(Dir(dir))
}

// WithInput sets the stdin payload.
func (c Chain[T]) WithInput(input []byte) Chain[T] {
	return c.With(Input(input))
}

// WithRunner sets the runner used by Run. Nil selects proc.Default.
func (c Chain[T]) WithRunner(runner proc.Runner) Chain[T] {
	next := c
	next.runner = runner
	return next
}

// Run executes the chain: one call into the runner, then the accumulated
// transformation. Options without a command fail with proc.ErrEmptyCommand
// before anything is spawned.
func (c Chain[T]) Run(ctx context.Context) (T, error) {
	if err := c.opts.Validate(); err != nil {
		var zero T
		return zero, err
	}
	runner := c.runner
	if runner == nil {
		runner = proc.Default()
	}
	out, err := runner.Execute(ctx, c.opts.Clone())
	return c.resolve(ctx, out, err)
}
