package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/FranksOps/dossier/internal/history"
	"github.com/FranksOps/dossier/internal/search"
)

// ensure sqliteStore implements history.Store
var _ history.Store = (*sqliteStore)(nil)

type sqliteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	query_text TEXT NOT NULL,
	query_type TEXT NOT NULL,
	total INTEGER NOT NULL,
	completed INTEGER NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	platform TEXT NOT NULL,
	status TEXT NOT NULL,
	url TEXT,
	description TEXT,
	content TEXT,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// New creates a new SQLite-backed history.Store.
func New(dsn string) (history.Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) SaveRun(ctx context.Context, run *search.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, query_text, query_type, total, completed, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
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
		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (run_id, position, platform, status, url, description, content, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
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

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *sqliteStore) ListRuns(ctx context.Context, filter history.Filter) ([]*search.Run, error) {
	query := `SELECT id, query_text, query_type, total, completed, started_at, finished_at FROM runs WHERE 1=1`
	args := []any{}

	if filter.QueryText != "" {
		query += ` AND query_text = ?`
		args = append(args, filter.QueryText)
	}
	if filter.QueryType != "" {
		query += ` AND query_type = ?`
		args = append(args, string(filter.QueryType))
	}
	if filter.Since != nil {
		query += ` AND started_at >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY started_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*search.Run
	for rows.Next() {
		run := &search.Run{}
		var qt string
		var started, finished time.Time
		if err := rows.Scan(&run.ID, &run.Query.Text, &qt, &run.Total, &run.Completed, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Query.Type = search.QueryType(qt)
		run.StartedAt = started
		run.FinishedAt = finished
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for _, run := range runs {
		if err := s.loadResults(ctx, run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *sqliteStore) loadResults(ctx context.Context, run *search.Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, status, url, description, content, created_at
		 FROM results WHERE run_id = ? ORDER BY position`,
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

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
