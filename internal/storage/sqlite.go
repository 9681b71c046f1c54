package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS heart_rate (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts INTEGER NOT NULL,
  value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_hr_ts_id ON heart_rate(ts, id);

CREATE TABLE IF NOT EXISTS sleep_epoch (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  start_ts INTEGER NOT NULL,
  end_ts INTEGER NOT NULL,
  stage TEXT
);

CREATE INDEX IF NOT EXISTS idx_sleep_start ON sleep_epoch(start_ts);
`

var _ SampleStore = (*SQLiteStore)(nil)

// SQLiteStore is the local-file sample store used by the CLI persist path.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) InsertHeartRates(ctx context.Context, samples []HeartRateSample) error {
	return s.bulkInsert(ctx, "INSERT INTO heart_rate(ts, value) VALUES (?, ?)", len(samples), func(stmt *sql.Stmt, i int) error {
		_, err := stmt.ExecContext(ctx, samples[i].TS, samples[i].Value)
		return err
	})
}

func (s *SQLiteStore) InsertSleepEpochs(ctx context.Context, epochs []SleepEpoch) error {
	return s.bulkInsert(ctx, "INSERT INTO sleep_epoch(start_ts, end_ts, stage) VALUES (?, ?, ?)", len(epochs), func(stmt *sql.Stmt, i int) error {
		_, err := stmt.ExecContext(ctx, epochs[i].StartTS, epochs[i].EndTS, epochs[i].Stage)
		return err
	})
}

// bulkInsert runs every row through one prepared statement inside a single
// transaction, so a batch is all-or-nothing.
func (s *SQLiteStore) bulkInsert(ctx context.Context, query string, rows int, exec func(*sql.Stmt, int) error) error {
	if rows == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range rows {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
