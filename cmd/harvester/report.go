package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/tour-sosik/internal/crawler"
	"github.com/Adda-Baaj/tour-sosik/internal/digest"
	"github.com/Adda-Baaj/tour-sosik/pkg/publishers"

	"github.com/spf13/cobra"
)

// reportCmd creates the "report" subcommand.
func reportCmd() *cobra.Command {
	var (
		dir       string
		noPublish bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch, write the text and HTML reports and publish the digest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()
			if dir != "" {
				a.cfg.Report.Dir = dir
			}

			ctx, cancel := signalContext()
			defer cancel()

			var pubs []publishers.Publisher
			if !noPublish {
				if pubs, err = a.loadPublishers(ctx); err != nil {
					return err
				}
			}

			h := a.harvester()
			job := a.digestJob(h.FetchAll, pubs)
			res, err := job.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d items\n%s\n%s\n", res.Items, res.Files.Text, res.Files.HTML)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "report output directory (overrides report.dir)")
	cmd.Flags().BoolVar(&noPublish, "no-publish", false, "write the reports without publishing")
	return cmd
}

func (a *app) digestJob(fetch digest.FetchFunc, pubs []publishers.Publisher) *digest.Job {
	page, text := a.cfg.ReportLimits(a.pipeline.Mode)
	return &digest.Job{
		Pipeline:   string(a.pipeline.Mode),
		Keywords:   a.pipeline.Keywords,
		Fetch:      fetch,
		Dir:        a.cfg.Report.Dir,
		PageLimits: page,
		TextLimits: text,
		Publishers: pubs,
		Log:        a.log,
		Location:   crawler.SeoulLocation(),
	}
}

// loadPublishers builds the enabled publishers of the configured catalog.
func (a *app) loadPublishers(ctx context.Context) ([]publishers.Publisher, error) {
	path := strings.TrimSpace(a.cfg.Publishers.File)
	if path == "" {
		return nil, nil
	}
	catalog, err := publishers.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), catalog.All(), a.log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	return pubs, nil
}
