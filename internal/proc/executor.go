package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Runner executes a command and returns its stdout.
// *Executor is the production implementation; tests substitute fakes.
type Runner interface {
	Execute(ctx context.Context, opts Options) ([]byte, error)
}

// Executor spawns child processes. The zero value is not usable; use New.
// An Executor holds no per-run state and is safe for concurrent use.
type Executor struct {
	logger   zerolog.Logger
	observer Observer
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger used for per-run debug records.
func WithLogger(logger zerolog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithObserver registers an observer notified after every run.
func WithObserver(observer Observer) ExecutorOption {
	return func(e *Executor) {
		e.observer = observer
	}
}

// New creates an Executor. Without options it logs nothing.
func New(opts ...ExecutorOption) *Executor {
	e := &Executor{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExecutor = New()

// Default returns the package-level executor used by Execute, Text and
// Succeeds.
func Default() *Executor {
	return defaultExecutor
}

// Execute runs opts with the default executor.
func Execute(ctx context.Context, opts Options) ([]byte, error) {
	return defaultExecutor.Execute(ctx, opts)
}

// Text runs opts with the default executor and decodes stdout.
func Text(ctx context.Context, opts Options) (string, error) {
	return defaultExecutor.Text(ctx, opts)
}

// Succeeds runs opts with the default executor and reports whether it
// succeeded.
func Succeeds(ctx context.Context, opts Options) bool {
	return defaultExecutor.Succeeds(ctx, opts)
}

// Text runs opts and decodes stdout. Failures are returned unchanged.
func (e *Executor) Text(ctx context.Context, opts Options) (string, error) {
	out, err := e.Execute(ctx, opts)
	if err != nil {
		return "", err
	}
	return Decode(out), nil
}

// Succeeds runs opts and reports whether it succeeded. It never fails:
// spawn errors, non-zero exits and cancellation all yield false.
func (e *Executor) Succeeds(ctx context.Context, opts Options) bool {
	_, err := e.Execute(ctx, opts)
	return err == nil
}

// Execute spawns opts.Command, feeds it opts.Input and returns its stdout.
// A failed run returns a *ProcessError; see the package documentation.
// Exactly one spawn is attempted per call.
func (e *Executor) Execute(ctx context.Context, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.Clone()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	logger := e.logger.With().
		Str("run_id", runID).
		Str("program", opts.Command.Program()).
		Logger()
	logger.Debug().
		Strs("args", opts.Command.Args()).
		Str("dir", opts.Dir).
		Int("input_bytes", len(opts.Input)).
		Msg("starting process")

	start := time.Now()
	out, exitCode, procErr := run(ctx, opts)
	duration := time.Since(start)

	event := Event{
		RunID:    runID,
		Command:  opts.Command,
		Dir:      opts.Dir,
		ExitCode: exitCode,
		Duration: duration,
	}
	if procErr != nil {
		event.Err = procErr
		logger.Debug().
			Str("kind", procErr.Kind.String()).
			Int("exit_code", exitCode).
			Dur("duration", duration).
			Int("stderr_bytes", len(procErr.Stderr)).
			Msg("process failed")
	} else {
		logger.Debug().
			Int("exit_code", exitCode).
			Dur("duration", duration).
			Int("stdout_bytes", len(out)).
			Msg("process finished")
	}
	if e.observer != nil {
		e.observer.ObserveRun(event)
	}

	if procErr != nil {
		return nil, procErr
	}
	return out, nil
}

// run does the actual spawn. It returns stdout, the exit code (-1 when the
// process never ran or its status is unknown) and a *ProcessError on
// failure. Every pipe and the process handle are released before it returns.
func run(ctx context.Context, opts Options) ([]byte, int, *ProcessError) {
	cmd := exec.CommandContext(ctx, opts.Command.Program(), opts.Command.Args()...) //nolint:gosec // running caller-supplied argv is the purpose of this package
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(opts)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, -1, spawnError(opts.Command, fmt.Errorf("creating stdin pipe: %w", err))
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		closeAll(stdin)
		return nil, -1, spawnError(opts.Command, fmt.Errorf("creating stdout pipe: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		closeAll(stdin, stdout)
		return nil, -1, spawnError(opts.Command, fmt.Errorf("creating stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		closeAll(stdin, stdout, stderr)
		if ctx.Err() != nil {
			return nil, -1, &ProcessError{Kind: KindCanceled, Command: opts.Command, ExitCode: -1, Err: ctx.Err()}
		}
		return nil, -1, spawnError(opts.Command, err)
	}

	// Reaps the child if anything below panics before Wait.
	waited := false
	defer func() {
		if waited {
			return
		}
		_ = cmd.Process.Kill()
		closeAll(stdin, stdout, stderr)
		_ = cmd.Wait()
	}()

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		defer stdin.Close() //nolint:errcheck // best-effort; Wait closes it too
		if len(opts.Input) > 0 {
			// EPIPE here just means the child stopped reading.
			_, _ = stdin.Write(opts.Input)
		}
	}()

	var outBuf, errBuf bytes.Buffer
	var drains errgroup.Group
	drains.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	drains.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	// CommandContext kills only the direct child. A background process that
	// inherited the pipes would keep the drains open, so cancellation closes
	// the read ends too.
	var cut atomic.Bool
	drained := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cut.Store(true)
			closeAll(stdout, stderr)
		case <-drained:
		}
	}()
	drainErr := drains.Wait()
	close(drained)

	waitErr := cmd.Wait()
	waited = true
	<-writeDone

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	if interrupted(ctx.Err(), waitErr, cut.Load() && drainErr != nil) {
		return nil, exitCode, &ProcessError{
			Kind:     KindCanceled,
			Command:  opts.Command,
			ExitCode: exitCode,
			Stderr:   Decode(errBuf.Bytes()),
			Err:      ctx.Err(),
		}
	}

	if waitErr != nil {
		return nil, exitCode, &ProcessError{
			Kind:     KindExit,
			Command:  opts.Command,
			ExitCode: exitCode,
			Stderr:   Decode(errBuf.Bytes()),
			Err:      waitErr,
		}
	}

	if drainErr != nil && !errors.Is(drainErr, os.ErrClosed) {
		return nil, exitCode, &ProcessError{
			Kind:     KindExit,
			Command:  opts.Command,
			ExitCode: exitCode,
			Stderr:   Decode(errBuf.Bytes()),
			Err:      fmt.Errorf("reading output: %w", drainErr),
		}
	}

	return outBuf.Bytes(), exitCode, nil
}

// interrupted reports whether a run ended by cancellation. A child that
// exited cleanly with its output fully drained before the deadline is not
// canceled even if the context expired afterwards.
func interrupted(ctxErr, waitErr error, cut bool) bool {
	return ctxErr != nil && (waitErr != nil || cut)
}

func spawnError(command Command, err error) *ProcessError {
	return &ProcessError{
		Kind:     KindSpawn,
		Command:  command,
		ExitCode: -1,
		Err:      err,
	}
}

// buildEnv returns nil (inherit) unless extra variables are requested.
// exec.Cmd only sets PWD for a nil Env, so it is added here when Dir is set.
func buildEnv(opts Options) []string {
	if len(opts.Env) == 0 {
		return nil
	}
	env := append(os.Environ(), opts.Env...)
	if opts.Dir != "" {
		if abs, err := filepath.Abs(opts.Dir); err == nil {
			env = append(env, "PWD="+abs)
		}
	}
	return env
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
