// Package main provides the entry point for the piperun CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gorewood/piperun/internal/config"
	"github.com/gorewood/piperun/internal/envfile"
	"github.com/gorewood/piperun/internal/logging"
	"github.com/gorewood/piperun/internal/output"
	"github.com/gorewood/piperun/internal/proc"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds what PersistentPreRunE resolves for every subcommand.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// executor returns an executor logging through the app logger.
func (a *app) executor(opts ...proc.ExecutorOption) *proc.Executor {
	return proc.New(append([]proc.ExecutorOption{proc.WithLogger(a.logger)}, opts...)...)
}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return flagValue(cmd, "json") == "true"
}

// useColor resolves --color against TTY detection on stdout.
func useColor(cmd *cobra.Command) bool {
	return output.ResolveColorMode(flagValue(cmd, "color"), output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter builds the printer for a command with errors on stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())
}

func flagValue(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		// Walk up to root to find the persistent flag
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd,
		fang.WithVersion(buildVersion()),
		fang.WithErrorHandler(handleError),
	)
	return output.GetExitCode(err)
}

// handleError prints errors fang receives. ExitErrors were already reported
// through the printer by the command that returned them.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// newRootCmd creates the root command for the piperun CLI.
func newRootCmd() *cobra.Command {
	state := &app{cfg: config.Default(), logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "piperun",
		Short: "Run programs and compose their output",
		Long: `piperun runs external programs with a working directory and stdin,
captures their output, and reports failures with the program's stderr.

It also wraps common git operations and exposes both as MCP tools
for agents (piperun serve).

All commands support --json for structured output. Exit status 4 means
the executed program failed; 1 and 2 mean piperun itself could not run it.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				err := output.NewUserError("no command specified. Run 'piperun --help' for usage")
				newPrinter(cmd).Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		loadEnvFiles()
		if err := state.init(cmd); err != nil {
			newPrinter(cmd).Error(err)
			return err
		}
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", output.ColorAuto, "Colorize output: auto, always, never")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (default warn, or $"+logging.EnvLevel+")")
	cmd.PersistentFlags().String("config", "", "Config file (default: config.yaml/.yml/.toml in the piperun config dir)")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
	addGroupedCommand(cmd, newRunCmd(state), "core")
	addGroupedCommand(cmd, newGitCmd(state), "core")
	addGroupedCommand(cmd, newServeCmd(state), "agent")

	return cmd
}

// init validates global flags, loads the config file and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	if err := output.ValidateColorMode(flagValue(cmd, "color")); err != nil {
		return err
	}

	cfg, err := loadConfig(flagValue(cmd, "config"))
	if err != nil {
		return output.NewUserError(err.Error())
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Config{
		Level:   logging.ResolveLevel(flagValue(cmd, "log-level"), cfg.Log.Level),
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		NoColor: !output.ResolveColorMode(flagValue(cmd, "color"), output.IsTTY(cmd.ErrOrStderr())),
	})
	if err != nil {
		return output.NewUserError(err.Error())
	}
	a.logger = logger.With().Str("command", cmd.Name()).Logger()
	if cfg.Path != "" {
		a.logger.Debug().Str("path", cfg.Path).Msg("config loaded")
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// loadEnvFiles loads env files in priority order. Environment variables
// already set always take precedence.
func loadEnvFiles() {
	_ = envfile.LoadAll(envfile.DefaultPaths(config.Dir())...)
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
