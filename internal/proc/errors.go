package proc

import (
	"errors"
	"fmt"
)

// ErrEmptyCommand is returned when Options.Command has no program.
var ErrEmptyCommand = errors.New("empty command")

// Kind classifies why a process run failed.
type Kind int

const (
	// KindSpawn means the executable could not be started.
	KindSpawn Kind = iota
	// KindExit means the child ran and exited non-zero or abnormally.
	KindExit
	// KindCanceled means the context was canceled or the timeout expired.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindSpawn:
		return "spawn"
	case KindExit:
		return "exit"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ProcessError reports a failed process run.
//
// For KindExit, Error returns exactly the decoded stderr text, which may be
// empty. An empty message is still a failure.
type ProcessError struct {
	Kind     Kind
	Command  Command
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	switch e.Kind {
	case KindExit:
		return e.Stderr
	case KindCanceled:
		if e.Stderr != "" {
			return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
		}
		return fmt.Sprint(e.Err)
	default:
		if e.Err == nil {
			return "cannot start " + e.Command.Program()
		}
		return e.Err.Error()
	}
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// AsProcessError extracts a *ProcessError from err's chain.
func AsProcessError(err error) (*ProcessError, bool) {
	var procErr *ProcessError
	if errors.As(err, &procErr) {
		return procErr, true
	}
	return nil, false
}
