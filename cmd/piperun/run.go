// Package main provides the entry point for the piperun CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/piperun/internal/chain"
	"github.com/gorewood/piperun/internal/output"
)

// runFlags holds the flags of the run command.
type runFlags struct {
	cwd       string
	input     string
	inputFile string
	env       []string
	timeout   time.Duration
	check     bool
}

// newRunCmd creates the run command.
func newRunCmd(state *app) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run [flags] -- program [args...]",
		Short: "Run a program and print its output",
		Long: `Run a program with optional working directory, stdin and environment,
and print what it wrote to stdout.

If the program exits non-zero, its stderr becomes the error message and
piperun exits with status 4. With --check nothing but true/false is
printed and the exit status still reflects the outcome.

Examples:
  piperun run -- git branch --show-current
  piperun run --cwd ../lib --check -- git diff --quiet
  piperun run --input 'hello' -- tr a-z A-Z
  piperun run --json --timeout 5s -- make test`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, state, args, flags)
		},
	}
	cmd.Flags().StringVar(&flags.cwd, "cwd", "", "Working directory for the program")
	cmd.Flags().StringVar(&flags.input, "input", "", "Text to write to the program's stdin")
	cmd.Flags().StringVar(&flags.inputFile, "input-file", "", "File to write to the program's stdin (- for piperun's own stdin)")
	cmd.Flags().StringArrayVar(&flags.env, "env", nil, "Extra KEY=VALUE environment entry (repeatable)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Kill the program after this long (default from config run.timeout)")
	cmd.Flags().BoolVar(&flags.check, "check", false, "Only report whether the program succeeded")
	cmd.MarkFlagsMutuallyExclusive("input", "input-file")
	return cmd
}

// runRun executes the run command.
func runRun(cmd *cobra.Command, state *app, args []string, flags runFlags) error {
	printer := newPrinter(cmd)

	settings, err := runSettings(cmd, state, flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	tokens := make([]any, len(args))
	for i, arg := range args {
		tokens[i] = arg
	}
	base := chain.Cmd(tokens...).With(settings...).WithRunner(state.executor())

	if flags.check {
		ok, err := chain.Success(base).Run(cmd.Context())
		if err != nil {
			printer.Error(err)
			return err
		}
		if err := printer.Check(ok); err != nil {
			return err
		}
		if !ok {
			return &output.ExitError{Code: output.ExitCommandFailed, Message: "command failed"}
		}
		return nil
	}

	stdout, err := chain.Text(base).Run(cmd.Context())
	if err != nil {
		exitErr := output.FromProcessError(err)
		printer.Error(exitErr)
		return exitErr
	}
	return printer.Raw(stdout)
}

// runSettings turns flags and config into chain settings.
func runSettings(cmd *cobra.Command, state *app, flags runFlags) ([]chain.Setting, error) {
	settings := []chain.Setting{chain.Dir(flags.cwd)}

	switch {
	case flags.inputFile == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, output.NewSystemErrorWithCause("reading stdin", err)
		}
		settings = append(settings, chain.Input(data))
	case flags.inputFile != "":
		data, err := os.ReadFile(flags.inputFile)
		if err != nil {
			return nil, output.NewUserError(fmt.Sprintf("reading input file: %v", err))
		}
		settings = append(settings, chain.Input(data))
	case flags.input != "":
		settings = append(settings, chain.InputString(flags.input))
	}

	if len(flags.env) > 0 {
		settings = append(settings, chain.Env(flags.env...))
	}

	timeout := flags.timeout
	if !cmd.Flags().Changed("timeout") {
		timeout = state.cfg.RunTimeout()
	}
	if timeout < 0 {
		return nil, output.NewUserError("--timeout must not be negative")
	}
	settings = append(settings, chain.Timeout(timeout))
	return settings, nil
}
