package cli

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/devlooped/nudoq/internal/indexer"
	"github.com/devlooped/nudoq/internal/metrics"
	"github.com/devlooped/nudoq/pkg/reader"
)

func newIndexCommand(opts *options) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "index DIR",
		Short: "Store every documentation file under DIR in the database",
		Args:  cobra.ExactArgs(1),
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

			index, err := loadIndex(cfg.Metadata)
			if err != nil {
				return err
			}

			store, err := openStorage(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			m := metrics.New(prometheus.NewRegistry())
			rd := reader.New(index,
				reader.WithLogger(logger),
				reader.WithCacheSize(cfg.CacheSize),
				reader.WithWorkers(cfg.Workers),
				reader.WithMetrics(m))
			idx := indexer.New(store, rd, indexer.WithLogger(logger), indexer.WithMetrics(m))

			stats, err := idx.IndexDirectory(cmd.Context(), args[0], &indexer.Config{
				Workers:   cfg.Workers,
				BatchSize: cfg.BatchSize,
				Prune:     prune,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "indexed %d, skipped %d, failed %d, pruned %d files in %s\n",
				stats.FilesIndexed, stats.FilesSkipped, stats.FilesFailed, stats.FilesPruned, stats.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "stored %d members, %d diagnostics (run %s)\n",
				stats.MembersStored, stats.DiagnosticsStored, stats.RunID)
			for _, msg := range stats.ErrorMessages {
				fmt.Fprintf(out, "  %s\n", msg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "delete stored documents whose files are gone from DIR")
	return cmd
}
