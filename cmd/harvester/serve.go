package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/api"
	"github.com/Adda-Baaj/tour-sosik/internal/cache"
	"github.com/Adda-Baaj/tour-sosik/internal/crawler"
	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	var (
		addr     string
		noCron   bool
		noWarmup bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the news API and run the scheduled digest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, cancel := signalContext()
			defer cancel()

			store, err := cache.Open(ctx, a.cfg.CacheOptions())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			h := a.harvester()
			loader := cache.NewLoader(store, "snapshot:"+string(a.pipeline.Mode), a.cfg.CacheTTL(), h.FetchAll, a.log)

			if !noWarmup {
				go func() {
					snap := loader.Load(ctx)
					a.log.InfoObj("cache warmed", "cache_warmup_done", map[string]any{
						"items":  len(snap.Items),
						"cached": snap.Cached,
					})
				}()
			}

			var sched *scheduler.Scheduler
			if !noCron {
				pubs, err := a.loadPublishers(ctx)
				if err != nil {
					return err
				}
				// scheduled runs also refresh what the API serves
				job := a.digestJob(func(ctx context.Context) []domain.NewsItem {
					return loader.Refresh(ctx).Items
				}, pubs)
				sched, err = scheduler.New("digest-"+string(a.pipeline.Mode), a.cfg.Schedule.Digest,
					func(ctx context.Context) error {
						_, err := job.Run(ctx)
						return err
					},
					a.log,
					scheduler.WithLocation(crawler.SeoulLocation()),
				)
				if err != nil {
					return err
				}
				sched.Start()
			}

			gin.SetMode(gin.ReleaseMode)
			srv := api.NewServer(loader, string(a.pipeline.Mode), a.pipeline.Providers, a.pipeline.Filter(), a.log)
			httpSrv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           api.NewRouter(srv),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.InfoObj("starting api server", "server_started", map[string]any{
					"addr":     httpSrv.Addr,
					"pipeline": string(a.pipeline.Mode),
				})
				if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("api server: %w", err)
				}
			}

			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancelShutdown()
			if sched != nil {
				sched.Stop(shutdownCtx)
			}
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown api server: %w", err)
			}
			a.log.InfoObj("api server stopped", "server_stopped", nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noCron, "no-cron", false, "do not schedule the daily digest")
	cmd.Flags().BoolVar(&noWarmup, "no-warmup", false, "do not fetch on startup")
	return cmd
}
