// Package main provides the entry point for the piperun CLI.
package main

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	piperunmcp "github.com/gorewood/piperun/internal/mcp"
	"github.com/gorewood/piperun/internal/metrics"
	"github.com/gorewood/piperun/internal/output"
	"github.com/gorewood/piperun/internal/proc"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd(state *app) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run piperun as a Model Context Protocol (MCP) server over stdio.

Tools:
  run       run a command permitted by serve.allow glob patterns
  git_info  describe the work tree (root, branch, tag, clean)
  git_tags  list tags

With no serve.allow patterns configured the run tool rejects every
command. Example config.yaml:

  serve:
    allow: ["git *", "make test"]
    metrics_addr: "127.0.0.1:9464"

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "piperun": {
        "command": "piperun",
        "args": ["serve"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = state.cfg.Serve.MetricsAddr
			}
			return runServe(cmd, state, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this host:port (default from config serve.metrics_addr)")
	return cmd
}

func runServe(cmd *cobra.Command, state *app, metricsAddr string) error {
	printer := newPrinter(cmd)

	allow, err := piperunmcp.NewAllowlist(state.cfg.Serve.Allow)
	if err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	var opts []proc.ExecutorOption
	if metricsAddr != "" {
		recorder := metrics.NewRecorder()
		srv := metrics.NewServer(recorder.Registry(), state.logger)
		if err := srv.Start(metricsAddr); err != nil {
			sysErr := output.NewSystemErrorWithCause("starting metrics server: "+err.Error(), err)
			printer.Error(sysErr)
			return sysErr
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(ctx)
		}()
		opts = append(opts, proc.WithObserver(recorder))
	}

	state.logger.Info().Strs("allow", allow.Patterns()).Msg("mcp server starting")
	server := piperunmcp.NewServer(buildVersion(), piperunmcp.Config{
		Runner:    state.executor(opts...),
		Allow:     allow,
		GitBinary: state.cfg.Git.Binary,
		Timeout:   state.cfg.RunTimeout(),
	})
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
