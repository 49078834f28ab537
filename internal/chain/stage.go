package chain

import (
	"context"
	"strings"

	"github.com/gorewood/piperun/internal/proc"
)

// Stage turns a chain with result A into a chain with result B.
type Stage[A, B any] func(Chain[A]) Chain[B]

// Pipe returns a function that applies f then g.
func Pipe[A, B, C any](f func(A) B, g func(B) C) func(A) C {
	return func(a A) C {
		return g(f(a))
	}
}

// Pipe3 returns a function that applies f, g, then h.
func Pipe3[A, B, C, D any](f func(A) B, g func(B) C, h func(C) D) func(A) D {
	return Pipe(Pipe(f, g), h)
}

// Map composes f after the chain's transformation. f may block or fail; it
// runs only when the chain runs and only if everything before it succeeded.
func Map[T, U any](f func(context.Context, T) (U, error)) Stage[T, U] {
	return func(c Chain[T]) Chain[U] {
		return Chain[U]{
			opts:   c.opts,
			runner: c.runner,
			resolve: func(ctx context.Context, out []byte, err error) (U, error) {
				value, err := c.resolve(ctx, out, err)
				if err != nil {
					var zero U
					return zero, err
				}
				return f(ctx, value)
			},
		}
	}
}

// MapSync is Map for a pure, infallible f.
func MapSync[T, U any](f func(T) U) Stage[T, U] {
	return Map(func(_ context.Context, value T) (U, error) {
		return f(value), nil
	})
}

// Set overrides the options of whatever chain flows through it.
func Set[T any](settings ...Setting) Stage[T, T] {
	return func(c Chain[T]) Chain[T] {
		return c.With(settings...)
	}
}

// CmdStage is Set(Command(tokens...)).
func CmdStage[T any](tokens ...any) Stage[T, T] {
	return Set[T](Command(tokens...))
}

// Success maps the run outcome to a boolean: true on success, false on any
// failure, including spawn failures. The resulting chain never fails once
// the run has been attempted.
func Success[T any](c Chain[T]) Chain[bool] {
	return Chain[bool]{
		opts:   c.opts,
		runner: c.runner,
		resolve: func(ctx context.Context, out []byte, err error) (bool, error) {
			_, err = c.resolve(ctx, out, err)
			return err == nil, nil
		},
	}
}

// Text decodes raw stdout as UTF-8.
func Text(c Chain[[]byte]) Chain[string] {
	return MapSync(proc.Decode)(c)
}

// Trim strips leading and trailing whitespace.
func Trim(c Chain[string]) Chain[string] {
	return MapSync(strings.TrimSpace)(c)
}

// Lines splits text on newlines, trims each line and drops empty ones.
// Order is preserved.
func Lines(c Chain[string]) Chain[[]string] {
	return MapSync(splitLines)(c)
}

func splitLines(text string) []string {
	lines := []string{}
	for line := range strings.SplitSeq(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
