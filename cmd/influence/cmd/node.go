package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/MinterTeam/influence-pool/api"
	"github.com/MinterTeam/influence-pool/core/statistics"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/MinterTeam/influence-pool/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// RunNode is the command that serves the pool state over the API.
var RunNode = &cobra.Command{
	Use:   "node",
	Short: "Run the pool node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runNode(cmd)
	},
}

func runNode(cmd *cobra.Command) error {
	logger := log.With("module", "main")
	logger.Info("starting node", "version", version.Version, "home", cfg.RootDir)

	var statistic *statistics.Data
	if cfg.Instrumentation.Prometheus {
		statistic = statistics.New(prometheus.DefaultRegisterer)
	}

	p, err := openPool(logger, statistic)
	if err != nil {
		return err
	}
	defer p.Close()

	logger.Info("state loaded", "height", p.distributor.Height(), "snapshots", p.distributor.SnapshotsCount())

	group, ctx := errgroup.WithContext(cmd.Context())

	service := api.NewService(p.distributor, p.events, statistic, cfg.API, logger)
	group.Go(func() error {
		return api.Run(ctx, service, cfg.API.ListenAddress)
	})

	if cfg.Instrumentation.Prometheus {
		group.Go(func() error {
			return runMetrics(ctx, cfg.Instrumentation.PrometheusListenAddr)
		})
	}

	err = group.Wait()
	logger.Info("node stopped")
	return err
}

func runMetrics(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
