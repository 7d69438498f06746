package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/ppc-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	client      TEXT NOT NULL DEFAULT '',
	report_file TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	result      TEXT,
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_client ON runs(client);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// Migrate applies the schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run, assigning an ID and timestamp when unset.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, client, report_file, status, result, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Client, run.ReportFile, string(run.Status), string(resultJSON), run.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert run")
}

// GetRun fetches one run by ID, returning nil when not found.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, client, report_file, status, result, created_at FROM runs WHERE id = ?`,
		runID,
	)
	run, err := scanSQLiteRun(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get run")
	}
	return run, nil
}

// ListRuns returns runs matching the filter, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, client, report_file, status, result, created_at FROM runs WHERE 1=1`
	var args []any

	if filter.Client != "" {
		query += ` AND client = ?`
		args = append(args, filter.Client)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanSQLiteRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs")
}

func scanSQLiteRun(scan func(dest ...any) error) (*model.Run, error) {
	var run model.Run
	var status, resultJSON string
	if err := scan(&run.ID, &run.Client, &run.ReportFile, &status, &resultJSON, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if resultJSON != "" && resultJSON != "null" {
		run.Result = &model.OptimizationResult{}
		if err := json.Unmarshal([]byte(resultJSON), run.Result); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
	}
	return &run, nil
}
