package main

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gnana997/cafetheme/pkg/content"
	"github.com/gnana997/cafetheme/pkg/theme"
	"github.com/gnana997/cafetheme/pkg/watch"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the configuration and templates",
		Long:  "Re-validate the configuration and re-extract templates as they change, printing one line per event.",
		Args:  cobra.NoArgs,
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
			if builtin(loaded) {
				return errors.New("watch needs a configuration file; run cafetheme export --out tailwind.config.js first")
			}

			scanner := content.NewScanner(content.NewIndex(0, a.logger), nil, a.logger)
			defer scanner.Close()

			ep := &eventPrinter{w: cmd.OutOrStdout()}
			w := watch.New(a.loader, scanner, watch.Options{
				ConfigPath: loaded.Path,
				ContentDir: resolve(a.dir, a.project.Root),
				Exclude:    a.project.Exclude,
				OnConfig:   ep.config,
				OnContent:  ep.content,
			}, a.logger)
			if err := w.Start(cmd.Context()); err != nil {
				return err
			}
			defer w.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "watching %s (%d files indexed)\n", loaded.Path, scanner.Index().Len())
			<-cmd.Context().Done()
			return nil
		},
	}
}

// eventPrinter serializes watcher callbacks onto one writer.
type eventPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *eventPrinter) config(ev watch.ConfigEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case ev.Err != nil:
		fmt.Fprintf(p.w, "config: %v (keeping previous)\n", ev.Err)
	case len(ev.Issues) == 0:
		fmt.Fprintf(p.w, "config: reloaded %s, ok\n", ev.Loaded.Path)
	default:
		status := "warnings"
		if theme.HasErrors(ev.Issues) {
			status = "errors"
		}
		fmt.Fprintf(p.w, "config: reloaded %s, %d issue(s) with %s\n", ev.Loaded.Path, len(ev.Issues), status)
		printIssues(p.w, ev.Issues)
	}
}

func (p *eventPrinter) content(ev watch.ContentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case ev.Err != nil:
		fmt.Fprintf(p.w, "content: %s: %v\n", ev.Path, ev.Err)
	case ev.Removed:
		fmt.Fprintf(p.w, "content: %s removed\n", ev.Path)
	default:
		fmt.Fprintf(p.w, "content: %s updated\n", ev.Path)
	}
}
