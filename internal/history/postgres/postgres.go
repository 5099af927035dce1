package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FranksOps/dossier/internal/history"
	"github.com/FranksOps/dossier/internal/search"
)

// ensure postgresStore implements history.Store
var _ history.Store = (*postgresStore)(nil)

type postgresStore struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	query_text TEXT NOT NULL,
	query_type TEXT NOT NULL,
	total INTEGER NOT NULL,
	completed INTEGER NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	platform TEXT NOT NULL,
	status TEXT NOT NULL,
	url TEXT,
	description TEXT,
	content TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// New creates a new Postgres-backed history.Store.
func New(ctx context.Context, dsn string) (history.Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) SaveRun(ctx context.Context, run *search.Run) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, query_text, query_type, total, completed, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID,
		run.Query.Text,
		string(run.Query.Type),
		run.Total,
		run.Completed,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, res := range run.Results {
		_, err = tx.Exec(ctx,
			`INSERT INTO results (run_id, position, platform, status, url, description, content, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			run.ID,
			i,
			res.Platform,
			string(res.Status),
			res.URL,
			res.Description,
			res.Content,
			res.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *postgresStore) ListRuns(ctx context.Context, filter history.Filter) ([]*search.Run, error) {
	query := `SELECT id, query_text, query_type, total, completed, started_at, finished_at FROM runs WHERE 1=1`
	args := []any{}
	arg := 0

	next := func() string {
		arg++
		return fmt.Sprintf("$%d", arg)
	}

	if filter.QueryText != "" {
		query += ` AND query_text = ` + next()
		args = append(args, filter.QueryText)
	}
	if filter.QueryType != "" {
		query += ` AND query_type = ` + next()
		args = append(args, string(filter.QueryType))
	}
	if filter.Since != nil {
		query += ` AND started_at >= ` + next()
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY started_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ` + next()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + next()
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*search.Run, error) {
		run := &search.Run{}
		var qt string
		var started, finished time.Time
		if err := row.Scan(&run.ID, &run.Query.Text, &qt, &run.Total, &run.Completed, &started, &finished); err != nil {
			return nil, err
		}
		run.Query.Type = search.QueryType(qt)
		run.StartedAt = started
		run.FinishedAt = finished
		return run, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect runs: %w", err)
	}

	for _, run := range runs {
		if err := s.loadResults(ctx, run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *postgresStore) loadResults(ctx context.Context, run *search.Run) error {
	rows, err := s.pool.Query(ctx,
		`SELECT platform, status, url, description, content, created_at
		 FROM results WHERE run_id = $1 ORDER BY position`,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res search.Result
		var status string
		if err := rows.Scan(&res.Platform, &status, &res.URL, &res.Description, &res.Content, &res.Timestamp); err != nil {
			return fmt.Errorf("scan result: %w", err)
		}
		res.Status = search.Status(status)
		run.Results = append(run.Results, res)
		run.Platforms = append(run.Platforms, res.Platform)
	}
	return rows.Err()
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
