package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/crawler"
	"github.com/Adda-Baaj/tour-sosik/internal/report"

	"github.com/spf13/cobra"
)

// fetchCmd creates the "fetch" subcommand.
func fetchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch every source once and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()

			items := a.harvester().FetchAll(ctx)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(items)
			}

			loc := crawler.SeoulLocation()
			d := report.Build(string(a.pipeline.Mode), items, a.pipeline.Keywords, time.Now(), report.Limits{})
			if err := report.WriteText(out, d, loc); err != nil {
				return fmt.Errorf("print digest: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print items as JSON")
	return cmd
}
