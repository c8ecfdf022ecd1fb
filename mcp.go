package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"taskprogress/internal/signal"
	"taskprogress/internal/statusmcp"
)

func newMCPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the demo while serving its status over MCP",
		Long: `Run the simulated build and serve a Model Context Protocol server over
stdio. Progress is printed as plain lines on stderr because stdout carries
the protocol.

Tools:
  list_tasks     every task with its status and progress
  task_status    one task, by description
  post_message   print a message above the tasks

The server keeps answering after the build finished, until stdin is closed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(opts)
		},
	}
}

func runMCP(opts *options) error {
	e, err := setUp(opts, os.Stderr, true)
	if err != nil {
		return err
	}
	defer e.close()

	srv := statusmcp.NewServer(e.ind, version, e.logger)
	return signal.SetUpHandler(e.interrupt, func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Serve(gctx, os.Stdin, os.Stdout)
		})
		g.Go(func() error {
			if err := runScenario(gctx, e, opts); err != nil {
				return err
			}
			return finish(e, opts, os.Stderr)
		})
		return g.Wait()
	})
}
