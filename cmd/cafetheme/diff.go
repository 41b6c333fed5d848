package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/cafetheme/pkg/loader"
)

func newDiffCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <path>",
		Short: "Compare a configuration file with the active theme",
		Long:  "Print a structural diff from the active theme (-) to the file (+). Exits 1 when they differ.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			want, err := a.active()
			if err != nil {
				return err
			}
			got, err := a.loader.Load(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			d := loader.Diff(want.Config, got.Config)
			if d == "" {
				fmt.Fprintf(w, "%s matches %s\n", got.Path, describe(want))
				return nil
			}
			fmt.Fprintf(w, "--- %s\n+++ %s\n%s", describe(want), got.Path, d)
			return &exitError{code: 1}
		},
	}
}
