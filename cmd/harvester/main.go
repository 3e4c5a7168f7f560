package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/tour-sosik/internal/config"
	"github.com/Adda-Baaj/tour-sosik/internal/harvester"
	"github.com/Adda-Baaj/tour-sosik/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	verbose  bool
	modeFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "harvester",
		Short: "Korean tourism and public-sector news harvester",
		Long: `harvester collects news from Korean tourism organisations and
municipal notice boards, filters it by keyword and publishes daily digests.

Pipelines:
  tourism  dedicated fetchers for national and regional tourism sites
  money    generic scanner over 42 city, province and district boards`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&modeFlag, "mode", "m", "", "pipeline mode: tourism or money (overrides config)")

	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sitesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is what every subcommand needs after startup.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	pipeline harvester.Pipeline
}

func setup() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if modeFlag != "" {
		cfg.Pipeline.Mode = modeFlag
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	p, err := cfg.ResolvePipeline()
	if err != nil {
		return nil, fmt.Errorf("resolve pipeline: %w", err)
	}
	return &app{cfg: cfg, log: log, pipeline: p}, nil
}

func (a *app) harvester() *harvester.Harvester {
	return harvester.NewForPipeline(a.pipeline, a.log, a.cfg.HarvesterOptions()...)
}

func (a *app) close() {
	_ = a.log.Sync()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
