// Package mcp provides a Model Context Protocol server for piperun.
// It exposes command execution and read-only git queries as MCP tools.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/piperun/internal/git"
	"github.com/gorewood/piperun/internal/proc"
)

// Config wires the tools to their collaborators.
type Config struct {
	// Runner executes every command. Nil means proc.Default.
	Runner proc.Runner
	// Allow gates the run tool. Nil rejects every command.
	Allow *Allowlist
	// GitBinary is the git executable for the git tools.
	GitBinary string
	// Timeout bounds each run tool call. Zero means none.
	Timeout time.Duration
}

// NewServer creates an MCP server with all piperun tools registered.
func NewServer(version string, cfg Config) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "piperun",
		Version: version,
	}, nil)
	registerTools(server, cfg)
	return server
}

func (c Config) repo(dir string) *git.Repo {
	return git.Open(dir, git.WithBinary(c.GitBinary), git.WithRunner(c.Runner))
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// execAnnotations describes the run tool, which can do anything the
// allowlist permits.
func execAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		OpenWorldHint:   boolPtr(true),
	}
}

// registerTools adds all piperun tools to the server.
func registerTools(server *mcp.Server, cfg Config) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "run",
		Description: "Run a program with arguments, optional working directory and stdin. " +
			"Returns stdout, or with check=true only whether it succeeded. " +
			"Only commands matching the server's allow patterns are permitted.",
		Annotations: execAnnotations(),
	}, handleRun(cfg))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "git_info",
		Description: "Describe a git work tree: whether dir is inside one, its root, branch, current tag and whether it is clean.",
		Annotations: readOnlyAnnotations(),
	}, handleGitInfo(cfg))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "git_tags",
		Description: "List the tags of the repository containing dir, in git's order.",
		Annotations: readOnlyAnnotations(),
	}, handleGitTags(cfg))
}
