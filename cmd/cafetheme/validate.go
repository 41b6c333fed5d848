package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/loader"
	"github.com/gnana997/cafetheme/pkg/theme"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Lint a theme configuration",
		Long:  "Lint the given configuration file, or the active configuration. Exits 1 when errors are found (or warnings, with --strict).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var loaded *loader.Loaded
			if len(args) == 1 {
				loaded, err = a.loader.Load(args[0])
			} else {
				loaded, err = a.active()
			}
			if err != nil {
				return &exitError{code: 1, err: err}
			}

			w := cmd.OutOrStdout()
			issues := catalog.Lint(loaded.Config)
			for _, key := range loaded.Ignored {
				a.logger.Warn("key has no theme mapping and was ignored", "key", key)
			}
			if len(issues) == 0 {
				fmt.Fprintf(w, "ok: %s\n", describe(loaded))
				return nil
			}

			fmt.Fprintf(w, "%s: %d issue(s)\n", describe(loaded), len(issues))
			printIssues(w, issues)
			if theme.HasErrors(issues) || strict {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	return cmd
}
