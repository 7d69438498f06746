package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Querier is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	db      Querier
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{db: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	client      TEXT NOT NULL DEFAULT '',
	report_file TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	result      JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_client ON runs(client);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// Migrate applies the schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveRun inserts a run, assigning an ID and timestamp when unset.
func (s *PostgresStore) SaveRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO runs (id, client, report_file, status, result, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.Client, run.ReportFile, string(run.Status), resultJSON, run.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert run")
}

// GetRun fetches one run by ID, returning nil when not found.
func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, client, report_file, status, result, created_at FROM runs WHERE id = $1`,
		runID,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get run")
	}
	return run, nil
}

// ListRuns returns runs matching the filter, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, client, report_file, status, result, created_at FROM runs WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return placeholderFor(len(args))
	}

	if filter.Client != "" {
		query += ` AND client = ` + arg(filter.Client)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs")
}

func scanRun(row pgx.Row) (*model.Run, error) {
	var run model.Run
	var status string
	var resultJSON []byte
	if err := row.Scan(&run.ID, &run.Client, &run.ReportFile, &status, &resultJSON, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if len(resultJSON) > 0 && string(resultJSON) != "null" {
		run.Result = &model.OptimizationResult{}
		if err := json.Unmarshal(resultJSON, run.Result); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
	}
	return &run, nil
}

func placeholderFor(n int) string {
	return fmt.Sprintf("$%d", n)
}
