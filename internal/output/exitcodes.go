// Package output provides structured output and error handling for the piperun CLI.
package output

import (
	"errors"
	"strings"

	"github.com/gorewood/piperun/internal/proc"
)

// Exit codes:
// 0 = Success
// 1 = User error (bad args, bad config, tool not allowed)
// 2 = System error (program missing, timeout, I/O error)
// 3 = Conflict (tag already exists)
// 4 = Command failed (the executed program exited non-zero)
const (
	ExitSuccess       = 0
	ExitUserError     = 1
	ExitSystemError   = 2
	ExitConflict      = 3
	ExitCommandFailed = 4
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewSystemError creates an error for system failures (exit code 2).
func NewSystemError(message string) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message, Cause: cause}
}

// NewConflictError creates an error for conflict situations (exit code 3).
func NewConflictError(message string) *ExitError {
	return &ExitError{Code: ExitConflict, Message: message}
}

// FromProcessError maps an execution failure to an ExitError.
// A non-zero exit becomes ExitCommandFailed with the program's stderr as the
// message; spawn failures and cancellation are system errors. Errors that are
// not *proc.ProcessError are returned as system errors too.
func FromProcessError(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	procErr, ok := proc.AsProcessError(err)
	if !ok {
		return NewSystemErrorWithCause(err.Error(), err)
	}
	switch procErr.Kind {
	case proc.KindExit:
		msg := strings.TrimRight(procErr.Stderr, "\r\n")
		if msg == "" {
			msg = procErr.Command.String() + " failed"
		}
		return &ExitError{Code: ExitCommandFailed, Message: msg, Cause: err}
	default:
		return NewSystemErrorWithCause(procErr.Error(), err)
	}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Default to user error for untyped errors
	return ExitUserError
}
