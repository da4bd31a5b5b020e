// Package platform persists scored batch runs to a SQL database.
package platform

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ktsort/ktsort/pkg/scoring"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnsupportedDriver is returned for a driver other than postgres or sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Store writes scored records, one row per record, grouped by run.
// Queries use $N placeholders, which both lib/pq and modernc sqlite bind by
// ordinal.
type Store struct {
	db *sql.DB
}

// Open connects to the database, verifies the connection and applies
// pending migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := AutoMigrate(db, driver); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes a run and all of its results in a single transaction.
func (s *Store) SaveRun(ctx context.Context, runID, source string, results []scoring.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, record_count) VALUES ($1, $2, $3)`,
		runID, source, len(results),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scored_records
		 (run_id, seq, name, answered, pct_ei, pct_sn, pct_tf, pct_jp, type_code, temperament)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, res := range results {
		p := res.Percentages
		if _, err := stmt.ExecContext(ctx,
			runID, i, res.Name, res.Tally.Answered(),
			nullPercentage(p[0]), nullPercentage(p[1]), nullPercentage(p[2]), nullPercentage(p[3]),
			res.Type.String(), string(res.Type.Temperament()),
		); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func nullPercentage(p scoring.Percentage) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(p.Value), Valid: p.Determinate}
}
