package main

import (
	"errors"
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/loader"
	"github.com/gnana997/cafetheme/pkg/theme"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the theme as a configuration file",
		Long: "Write the active theme for the styling engine. Without --out the result goes to stdout. " +
			"The format defaults to the extension of --out, or js. .mjs, .mts and .ts files get export default.",
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
			if theme.HasErrors(catalog.Lint(loaded.Config)) {
				return &exitError{code: 1, err: fmt.Errorf("%s has validation errors; run cafetheme validate", describe(loaded))}
			}

			var f theme.Format
			if format != "" {
				if f, err = theme.ParseFormat(format); err != nil {
					return err
				}
			}

			if out == "" {
				if f == theme.FormatUnknown {
					f = theme.FormatJS
				}
				data, err := loader.Render(loaded.Config, f)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			data, f, err := loader.RenderFile(out, loaded.Config, f)
			if err != nil {
				if errors.Is(err, loader.ErrUnsupportedFormat) {
					return fmt.Errorf("%w (use --format)", err)
				}
				return err
			}
			if err := renameio.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.Info("exported theme", "path", out, "format", string(f), "bytes", len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: js, json, yaml, toml")
	return cmd
}
