package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nocturnehq/nocturne/internal/export"
	"github.com/nocturnehq/nocturne/internal/healthkit"
	"github.com/nocturnehq/nocturne/internal/storage"
)

func persistCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "persist <export>",
		Short: "Stream an export into a local SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()

			ctx := cmd.Context()

			store, err := storage.NewSQLiteStore(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.Close()

			heartRates, sleepEpochs, stats, err := persistExport(ctx, f, store)
			if err != nil {
				return fmt.Errorf("persist: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"persisted %d heart-rate samples and %d sleep epochs (%d records read, %d dropped)\n",
				heartRates, sleepEpochs, stats.Emitted()+stats.Dropped(), stats.Dropped())
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "nocturne.db", "path to the SQLite database file")

	return cmd
}

// persistExport runs the extractor and the batch writer as a two-stage
// pipeline so SQLite inserts overlap XML decoding.
func persistExport(ctx context.Context, f *os.File, store storage.SampleStore) (heartRates, sleepEpochs int, stats export.Stats, err error) {
	records := make(chan healthkit.RawRecord, storage.HeartRateBatchSize)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(records)
		var err error
		stats, err = export.Extract(gctx, f, func(rec healthkit.RawRecord) error {
			select {
			case records <- rec:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
		return err
	})

	persister := storage.NewPersister(store)
	g.Go(func() error {
		for rec := range records {
			switch rec.Kind {
			case healthkit.KindSleep:
				err := persister.AddSleep(gctx, storage.SleepEpoch{
					StartTS: rec.Start.UnixMilli(),
					EndTS:   rec.End.UnixMilli(),
					Stage:   string(healthkit.ParseStage(rec.Value)),
				})
				if err != nil {
					return err
				}
			case healthkit.KindHeartRate:
				value, err := strconv.ParseFloat(rec.Value, 64)
				if err != nil {
					continue
				}
				if err := persister.AddHeartRate(gctx, storage.HeartRateSample{
					TS:    rec.Start.UnixMilli(),
					Value: value,
				}); err != nil {
					return err
				}
			}
		}
		return persister.Flush(gctx)
	})

	if err := g.Wait(); err != nil {
		return 0, 0, export.Stats{}, err
	}

	heartRates, sleepEpochs = persister.Persisted()
	return heartRates, sleepEpochs, stats, nil
}
