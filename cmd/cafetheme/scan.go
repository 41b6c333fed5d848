package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/content"
	"github.com/gnana997/cafetheme/pkg/usage"
)

type scanOutput struct {
	Stats  content.ScanStats  `json:"stats"`
	Cache  content.CacheStats `json:"cache"`
	Report *usage.Report      `json:"report"`
}

func newScanCmd(opts *globalOptions) *cobra.Command {
	var (
		asJSON  bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the content files and report token usage",
		Long:  "Resolve the content globs under the project, extract class candidates and report used, unused and unknown tokens.",
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

			scanner := content.NewScanner(content.NewIndex(0, a.logger), nil, a.logger)
			defer scanner.Close()

			baseDir := a.contentDir(loaded)
			stats, err := scanner.Scan(cmd.Context(), baseDir, a.scanConfig(loaded, workers))
			if err != nil {
				return err
			}
			report := usage.Analyze(catalog.FromConfig(loaded.Config), scanner.Index())
			a.logger.Debug("content cache", "stats", scanner.Stats())

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(scanOutput{Stats: stats, Cache: scanner.Stats(), Report: report})
			}
			printReport(w, stats, report, baseDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().IntVar(&workers, "workers", 0, "Extraction workers (0 = auto)")
	return cmd
}
