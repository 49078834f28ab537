package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/piperun/internal/chain"
	"github.com/gorewood/piperun/internal/proc"
)

// --- Run tool ---

// RunInput is the input for the run tool.
type RunInput struct {
	Command []string `json:"command"         jsonschema:"program followed by its arguments"`
	Dir     string   `json:"dir,omitempty"   jsonschema:"working directory (default: server's)"`
	Input   string   `json:"input,omitempty" jsonschema:"text written to the program's stdin"`
	Check   bool     `json:"check,omitempty" jsonschema:"only report whether the command succeeded"`
}

// RunOutput is the output for the run tool.
type RunOutput struct {
	OK       bool   `json:"ok"                  jsonschema:"whether the program exited with status 0"`
	Stdout   string `json:"stdout,omitempty"    jsonschema:"decoded standard output"`
	ExitCode int    `json:"exit_code,omitempty" jsonschema:"exit status of a failed program"`
	Stderr   string `json:"stderr,omitempty"    jsonschema:"decoded standard error of a failed program"`
}

// ErrNotAllowed is returned when a command matches no allow pattern.
var ErrNotAllowed = errors.New("command not allowed")

func handleRun(cfg Config) mcp.ToolHandlerFor[RunInput, RunOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RunInput) (*mcp.CallToolResult, RunOutput, error) {
		command := proc.Command(input.Command)
		if len(command) == 0 || command.Program() == "" {
			return nil, RunOutput{}, proc.ErrEmptyCommand
		}
		if !cfg.Allow.Allows(command) {
			return nil, RunOutput{}, fmt.Errorf("%w: %s", ErrNotAllowed, command)
		}

		base := chain.New().
			WithCommand(toTokens(command)...).
			WithDir(input.Dir).
			WithRunner(cfg.Runner).
			With(chain.InputString(input.Input), chain.Timeout(cfg.Timeout))

		if input.Check {
			ok, err := chain.Success(base).Run(ctx)
			if err != nil {
				return nil, RunOutput{}, err
			}
			return nil, RunOutput{OK: ok}, nil
		}

		stdout, err := chain.Text(base).Run(ctx)
		if err == nil {
			return nil, RunOutput{OK: true, Stdout: stdout}, nil
		}
		// A non-zero exit is a result, not a tool failure.
		if procErr, ok := proc.AsProcessError(err); ok && procErr.Kind == proc.KindExit {
			return nil, RunOutput{ExitCode: procErr.ExitCode, Stderr: procErr.Stderr}, nil
		}
		return nil, RunOutput{}, err
	}
}

func toTokens(command proc.Command) []any {
	tokens := make([]any, len(command))
	for i, arg := range command {
		tokens[i] = arg
	}
	return tokens
}

// --- Git info tool ---

// GitInput selects the repository for the git tools.
type GitInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory inside the repository (default: server's)"`
}

// GitInfoOutput is the output for the git_info tool.
type GitInfoOutput struct {
	WorkTree bool   `json:"work_tree"        jsonschema:"whether dir is inside a git work tree"`
	IsRoot   bool   `json:"is_root"          jsonschema:"whether dir is the top of the work tree"`
	Root     string `json:"root,omitempty"   jsonschema:"absolute path of the work tree root"`
	Branch   string `json:"branch,omitempty" jsonschema:"checked-out branch, empty when detached"`
	Tag      string `json:"tag,omitempty"    jsonschema:"git describe output for HEAD"`
	Clean    bool   `json:"clean"            jsonschema:"whether there are no uncommitted or untracked changes"`
}

func handleGitInfo(cfg Config) mcp.ToolHandlerFor[GitInput, GitInfoOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GitInput) (*mcp.CallToolResult, GitInfoOutput, error) {
		repo := cfg.repo(input.Dir)
		if !repo.IsWorkTree(ctx) {
			return nil, GitInfoOutput{}, nil
		}

		out := GitInfoOutput{WorkTree: true, IsRoot: repo.IsWorkTreeRoot(ctx)}

		root, err := repo.RepoRoot(ctx)
		if err != nil {
			return nil, GitInfoOutput{}, fmt.Errorf("getting repo root: %w", err)
		}
		out.Root = root

		if out.Branch, err = repo.CurrentBranch(ctx); err != nil {
			return nil, GitInfoOutput{}, fmt.Errorf("getting branch: %w", err)
		}
		if out.Clean, err = repo.IsWorkTreeClean(ctx); err != nil {
			return nil, GitInfoOutput{}, fmt.Errorf("getting status: %w", err)
		}

		// describe fails when there are no tags or commits; leave Tag empty.
		out.Tag, _ = repo.CurrentTag(ctx)
		return nil, out, nil
	}
}

// --- Git tags tool ---

// GitTagsOutput is the output for the git_tags tool.
type GitTagsOutput struct {
	Tags []string `json:"tags" jsonschema:"tag names in git's order"`
}

func handleGitTags(cfg Config) mcp.ToolHandlerFor[GitInput, GitTagsOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GitInput) (*mcp.CallToolResult, GitTagsOutput, error) {
		tags, err := cfg.repo(input.Dir).Tags(ctx)
		if err != nil {
			return nil, GitTagsOutput{}, fmt.Errorf("listing tags: %w", err)
		}
		return nil, GitTagsOutput{Tags: tags}, nil
	}
}
