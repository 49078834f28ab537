// Package main provides the entry point for the piperun CLI.
package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gorewood/piperun/internal/git"
	"github.com/gorewood/piperun/internal/output"
)

// newGitCmd creates the git command group.
func newGitCmd(state *app) *cobra.Command {
	var cwd string
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Run common git operations",
		Long: `Thin wrappers over the git executable (git.binary in config).

Operations that only succeed or fail print true/false and exit 4 on
failure. Queries print their result and report git's stderr on failure.

Examples:
  piperun git branch
  piperun git tags --json
  piperun git add-tag v1.2.0 -m "release 1.2.0"
  piperun git --cwd ../lib status`,
	}
	cmd.PersistentFlags().StringVar(&cwd, "cwd", "", "Repository directory (default: current directory)")

	open := func() *git.Repo {
		return git.Open(cwd, git.WithBinary(state.cfg.Git.Binary), git.WithRunner(state.executor()))
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create an empty repository",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return reportCheck(cmd, open().Init(cmd.Context()), "git init failed")
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print porcelain status; JSON adds whether the tree is clean",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printer := newPrinter(cmd)
				status, err := open().Status(cmd.Context())
				if err != nil {
					return reportError(printer, err)
				}
				if printer.IsJSON() {
					return printer.Fields(map[string]any{"status": status, "clean": status == ""})
				}
				return printer.Raw(status)
			},
		},
		&cobra.Command{
			Use:   "branch",
			Short: "Print the current branch",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				branch, err := open().CurrentBranch(cmd.Context())
				return reportValue(cmd, "branch", branch, err)
			},
		},
		&cobra.Command{
			Use:   "tag",
			Short: "Describe HEAD by its most recent tag",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				tag, err := open().CurrentTag(cmd.Context())
				return reportValue(cmd, "tag", tag, err)
			},
		},
		&cobra.Command{
			Use:   "tags",
			Short: "List tags",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printer := newPrinter(cmd)
				tags, err := open().Tags(cmd.Context())
				if err != nil {
					return reportError(printer, err)
				}
				return printer.List("tags", tags)
			},
		},
		newAddTagCmd(open),
		&cobra.Command{
			Use:   "push <repository> <refspec>",
			Short: "Push a refspec to a remote",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return reportCheck(cmd, open().Push(cmd.Context(), args[0], args[1]), "git push failed")
			},
		},
		newSubmoduleCmd(open),
	)
	return cmd
}

func newAddTagCmd(open func() *git.Repo) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "add-tag <name>",
		Short: "Tag HEAD (annotated when -m is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := open()
			name := args[0]
			if tags, err := repo.Tags(cmd.Context()); err == nil && slices.Contains(tags, name) {
				err := output.NewConflictError(fmt.Sprintf("tag %q already exists", name))
				newPrinter(cmd).Error(err)
				return err
			}
			ok := repo.AddTag(cmd.Context(), name, git.TagOptions{Message: message})
			return reportCheck(cmd, ok, "git tag failed")
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Annotation message")
	return cmd
}

func newSubmoduleCmd(open func() *git.Repo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submodule",
		Short: "Manage submodules",
	}

	var force bool
	add := &cobra.Command{
		Use:   "add <url> <path>",
		Short: "Add a submodule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := open().AddSubmodule(cmd.Context(), args[0], args[1], git.SubmoduleOptions{Force: force})
			return reportCheck(cmd, ok, "git submodule add failed")
		},
	}
	add.Flags().BoolVar(&force, "force", false, "Allow adding an otherwise ignored path")
	cmd.AddCommand(add)
	return cmd
}

// reportCheck prints a boolean outcome and turns false into exit status 4.
func reportCheck(cmd *cobra.Command, ok bool, failure string) error {
	if err := newPrinter(cmd).Check(ok); err != nil {
		return err
	}
	if !ok {
		return &output.ExitError{Code: output.ExitCommandFailed, Message: failure}
	}
	return nil
}

// reportValue prints a single named value, or the query's error.
func reportValue(cmd *cobra.Command, key, value string, err error) error {
	printer := newPrinter(cmd)
	if err != nil {
		return reportError(printer, err)
	}
	if printer.IsJSON() {
		return printer.Fields(map[string]any{key: value})
	}
	return printer.Raw(value + "\n")
}

func reportError(printer *output.Printer, err error) error {
	exitErr := output.FromProcessError(err)
	printer.Error(exitErr)
	return exitErr
}
