package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ SampleStore = (*PostgresStore)(nil)

// PostgresStore is the server-side sample store. Bulk inserts use the
// COPY protocol; the schema is applied by the migration runner at startup.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) InsertHeartRates(ctx context.Context, samples []HeartRateSample) error {
	if len(samples) == 0 {
		return nil
	}

	rows := make([][]any, len(samples))
	for i, sample := range samples {
		rows[i] = []any{sample.TS, sample.Value}
	}

	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"heart_rate"},
		[]string{"ts", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy heart_rate: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertSleepEpochs(ctx context.Context, epochs []SleepEpoch) error {
	if len(epochs) == 0 {
		return nil
	}

	rows := make([][]any, len(epochs))
	for i, epoch := range epochs {
		rows[i] = []any{epoch.StartTS, epoch.EndTS, epoch.Stage}
	}

	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"sleep_epoch"},
		[]string{"start_ts", "end_ts", "stage"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy sleep_epoch: %w", err)
	}
	return nil
}

// Close is a no-op; the pool is owned by the process entry point.
func (s *PostgresStore) Close() error {
	return nil
}
