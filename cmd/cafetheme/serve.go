package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/cafetheme/pkg/content"
	"github.com/gnana997/cafetheme/pkg/mcp"
	"github.com/gnana997/cafetheme/pkg/mcplog"
	"github.com/gnana997/cafetheme/pkg/watch"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		watchFiles bool
		callLog    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: "Serve the theme catalog, validation and usage report to coding agents over MCP stdio. " +
			"With --watch, config and template edits are picked up live.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			loaded, err := a.active()
			if err != nil {
				return err
			}

			logPath := callLog
			if logPath == "" {
				logPath = resolve(a.dir, a.project.MCPLog)
			}
			calls, err := mcplog.NewLogger(logPath)
			if err != nil {
				return err
			}
			if calls != nil {
				defer calls.Close()
			}

			index := content.NewIndex(0, a.logger)
			scanner := content.NewScanner(index, nil, a.logger)
			defer scanner.Close()
			state := mcp.NewState(loaded, index)

			if watchFiles {
				if builtin(loaded) {
					return errors.New("--watch needs a configuration file")
				}
				w := watch.New(a.loader, scanner, watch.Options{
					ConfigPath: loaded.Path,
					ContentDir: resolve(a.dir, a.project.Root),
					Exclude:    a.project.Exclude,
					OnConfig: func(ev watch.ConfigEvent) {
						if ev.Err == nil {
							state.Update(ev.Loaded)
						}
					},
				}, a.logger)
				if err := w.Start(cmd.Context()); err != nil {
					return err
				}
				defer w.Stop()
			} else if _, err := scanner.Scan(cmd.Context(), a.contentDir(loaded), a.scanConfig(loaded, 0)); err != nil {
				return fmt.Errorf("content scan: %w", err)
			}

			srv := mcp.NewServer(state, version, calls, a.logger)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&watchFiles, "watch", false, "Reload the config and re-scan templates on change")
	cmd.Flags().StringVar(&callLog, "mcp-log", "", "Append a JSONL record of every tool call to this file")
	return cmd
}
