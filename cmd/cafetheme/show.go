package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/loader"
	"github.com/gnana997/cafetheme/pkg/theme"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var (
		format string
		tokens bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active theme configuration",
		Long:  "Print the active theme configuration in js, json, yaml or toml, or as a token table with --tokens.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := theme.ParseFormat(format)
			if err != nil {
				return err
			}
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			loaded, err := a.active()
			if err != nil {
				return err
			}
			if tokens {
				printTokens(cmd.OutOrStdout(), catalog.Build(loaded.Config).Tokens)
				return nil
			}
			data, err := loader.Render(loaded.Config, f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "js", "Output format: js, json, yaml, toml")
	cmd.Flags().BoolVar(&tokens, "tokens", false, "Print the token table instead of the configuration")
	return cmd
}
