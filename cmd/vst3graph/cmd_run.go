package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/vst3graph/pkg/config"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		realtime    bool
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "run <session.yaml>",
		Short: "Build the graph a session declares, render it and apply its edit steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := config.LoadSession(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, ctx := errgroup.WithContext(ctx)

			if a.cfg.Metrics.Enabled && metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
				g.Go(func() error {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("metrics server: %w", err)
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					return srv.Shutdown(context.Background())
				})
				a.log.Info("serving metrics", "addr", metricsAddr)
			}

			g.Go(func() error {
				defer cancel()
				rn := newRunner(a.cfg, a.log, cmd.OutOrStdout())
				rn.realtime = realtime
				return rn.run(ctx, session)
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&realtime, "realtime", false, "pace rendering at the block period instead of freewheeling")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9464", "listen address for /metrics when metrics are enabled")
	return cmd
}
