// Package mockcli implements a tiny command-line program used to exercise
// process execution end to end.
//
// It is compiled into cmd/mockcli and is also re-executed from test binaries
// (see EnvVar) so tests never depend on a prebuilt executable.
package mockcli

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// EnvVar, when set to "1" in a test binary's environment, makes TestMain
// hand control to Main instead of running tests.
const EnvVar = "PIPERUN_MOCKCLI"

// ExitFailure is the status used by the fail command.
const ExitFailure = 255

// readSize bounds how much of stdin echo and fail copy.
const readSize = 1024

const help = `usage: 	mockcli <command>

If the specified command is not available, this help message is printed.
These are the available commands:

answer
	writes the line "42" to stdout

echo
	writes stdin to stdout

fail
	writes stdin to stderr and returns an error code

cwd
	writes the CWD as a line to stdout`

// Main runs the fixture with the given arguments (excluding the program
// name) and returns the process exit status.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "answer":
		_, _ = io.WriteString(stdout, "42\n")
		return 0
	case "echo":
		copyOnce(stdout, stdin)
		return 0
	case "fail":
		copyOnce(stderr, stdin)
		return ExitFailure
	case "cwd":
		dir, err := os.Getwd()
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		_, _ = io.WriteString(stdout, dir+"\n")
		return 0
	default:
		_, _ = io.WriteString(stdout, strings.TrimSpace(help))
		return 0
	}
}

// copyOnce performs a single read of up to readSize bytes and writes what
// it got. It deliberately does not loop until EOF.
func copyOnce(dst io.Writer, src io.Reader) {
	buf := make([]byte, readSize)
	n, _ := src.Read(buf)
	if n > 0 {
		_, _ = dst.Write(buf[:n])
	}
}

// RunIfRequested turns the current process into the fixture when EnvVar is
// set. Call it first thing in TestMain.
func RunIfRequested() {
	if os.Getenv(EnvVar) != "1" {
		return
	}
	os.Exit(Main(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Self returns an argv that re-executes the running binary as the fixture
// with the given arguments, plus the environment entry that activates it.
func Self(args ...string) (argv []string, env string, err error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, "", fmt.Errorf("locating test binary: %w", err)
	}
	return append([]string{exe}, args...), EnvVar + "=1", nil
}
