package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/devlooped/nudoq/internal/indexer"
	"github.com/devlooped/nudoq/internal/mcp"
	"github.com/devlooped/nudoq/internal/metrics"
	"github.com/devlooped/nudoq/internal/storage"
	"github.com/devlooped/nudoq/pkg/reader"
)

func newServeCommand(opts *options) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			logger.Info("nudoq MCP server starting",
				zap.String("db", cfg.DBPath),
				zap.String("build_mode", storage.BuildMode),
				zap.String("driver", storage.DriverName))

			index, err := loadIndex(cfg.Metadata)
			if err != nil {
				return err
			}

			store, err := openStorage(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			rd := reader.New(index,
				reader.WithLogger(logger),
				reader.WithCacheSize(cfg.CacheSize),
				reader.WithWorkers(cfg.Workers),
				reader.WithMetrics(m))
			idx := indexer.New(store, rd, indexer.WithLogger(logger), indexer.WithMetrics(m))
			server := mcp.NewServer(store, idx,
				mcp.WithLogger(logger),
				mcp.WithIndexConfig(indexer.Config{Workers: cfg.Workers, BatchSize: cfg.BatchSize}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server failed", zap.Error(err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
				logger.Info("serving metrics", zap.String("addr", metricsAddr))
			}

			err = server.Serve(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}
