package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// sitesCmd creates the "sites" subcommand.
func sitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the sources of the selected pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tURL")
			for _, p := range a.pipeline.Providers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.DisplayName(), p.Type, p.SourceURL)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d sources, %d keywords\n", len(a.pipeline.Providers), len(a.pipeline.Keywords))
			return nil
		},
	}
}
