package recorder

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"BoxScreener/internal/model"
)

// PostgresRecorder archives reports to PostgreSQL.
type PostgresRecorder struct {
	db *sqlx.DB
}

// NewPostgresRecorder connects to the database and creates the tables.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	db.SetMaxOpenConns(4)

	r := &PostgresRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Println("[INFO] postgres recorder opened")
	return r, nil
}

func (r *PostgresRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screen_runs (
			run_id         TEXT PRIMARY KEY,
			generated_at   BIGINT NOT NULL,
			total_analyzed INTEGER,
			found_count    INTEGER,
			error          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON screen_runs(generated_at)`,

		`CREATE TABLE IF NOT EXISTS screen_results (
			id             BIGSERIAL PRIMARY KEY,
			run_id         TEXT NOT NULL REFERENCES screen_runs(run_id),
			symbol         TEXT NOT NULL,
			exchange       TEXT NOT NULL,
			volume         DOUBLE PRECISION,
			current_price  DOUBLE PRECISION,
			box_count      INTEGER,
			all_timeframes BOOLEAN,
			payload        JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON screen_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_symbol ON screen_results(exchange, symbol)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordReport(runID string, report *model.Report) error {
	run, rows, err := buildRows(runID, report)
	if err != nil {
		return err
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO screen_runs
		(run_id, generated_at, total_analyzed, found_count, error)
		VALUES (:run_id, :generated_at, :total_analyzed, :found_count, :error)`, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if len(rows) > 0 {
		if _, err := tx.NamedExec(`INSERT INTO screen_results
			(run_id, symbol, exchange, volume, current_price, box_count, all_timeframes, payload)
			VALUES (:run_id, :symbol, :exchange, :volume, :current_price, :box_count, :all_timeframes, :payload)`,
			rows); err != nil {
			return fmt.Errorf("insert results: %w", err)
		}
	}
	return tx.Commit()
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	return r.db.Close()
}
