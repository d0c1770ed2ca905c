// Package store persists reconciliation runs to Postgres, so past
// runs can be compared and served by the report server.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/gpgis-ams/internal/engine"
	"github.com/gpgis-ams/internal/normalize"
)

// Store wraps the run archive database.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and ensures the schema exists.
func Open(ctx context.Context, url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id UUID PRIMARY KEY,
		created TIMESTAMPTZ NOT NULL,
		source_count INTEGER NOT NULL,
		target_count INTEGER NOT NULL,
		matching INTEGER NOT NULL,
		divergent INTEGER NOT NULL,
		missing INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS run_results (
		run_id UUID NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		class TEXT NOT NULL,
		source_id TEXT NOT NULL,
		target_id TEXT,
		match_key TEXT NOT NULL,
		differing_fields TEXT,
		PRIMARY KEY (run_id, position)
	);
	CREATE INDEX IF NOT EXISTS run_results_class_idx ON run_results (run_id, class);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: creating schema: %w", err)
	}
	return nil
}

// SaveReport archives one reconciliation run.  The whole report goes
// in a single transaction; a half-written run never becomes visible.
func (s *Store) SaveReport(ctx context.Context, report *engine.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created, source_count, target_count, matching, divergent, missing)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.RunID, report.Created, report.SourceCount, report.TargetCount,
		report.Summary.Matching, report.Summary.Divergent, report.Summary.Missing)
	if err != nil {
		return fmt.Errorf("store: inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_results (run_id, position, class, source_id, target_id, match_key, differing_fields)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("store: preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range report.Results {
		_, err := stmt.ExecContext(ctx, report.RunID, i, r.Class.String(),
			r.SourceID, r.TargetID, string(r.Key), strings.Join(r.Fields, ";"))
		if err != nil {
			return fmt.Errorf("store: inserting result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing run: %w", err)
	}
	return nil
}

// RunSummary is one archived run's header row.
type RunSummary struct {
	RunID       uuid.UUID
	Created     time.Time
	SourceCount int
	TargetCount int
	Summary     engine.Summary
}

// ListRuns returns archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created, source_count, target_count, matching, divergent, missing
		 FROM runs ORDER BY created DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		err := rows.Scan(&r.RunID, &r.Created, &r.SourceCount, &r.TargetCount,
			&r.Summary.Matching, &r.Summary.Divergent, &r.Summary.Missing)
		if err != nil {
			return nil, fmt.Errorf("store: scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadReport reassembles one archived run, results in original order.
func (s *Store) LoadReport(ctx context.Context, runID uuid.UUID) (*engine.Report, error) {
	report := &engine.Report{RunID: runID}
	err := s.db.QueryRowContext(ctx,
		`SELECT created, source_count, target_count, matching, divergent, missing
		 FROM runs WHERE run_id = $1`, runID).
		Scan(&report.Created, &report.SourceCount, &report.TargetCount,
			&report.Summary.Matching, &report.Summary.Divergent, &report.Summary.Missing)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("store: loading run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT class, source_id, target_id, match_key, differing_fields
		 FROM run_results WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: loading results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var class, fields string
		var targetID sql.NullString
		var r engine.Result
		var key string
		if err := rows.Scan(&class, &r.SourceID, &targetID, &key, &fields); err != nil {
			return nil, fmt.Errorf("store: scanning result: %w", err)
		}
		r.Class = parseClass(class)
		r.TargetID = targetID.String
		r.Key = normalize.MatchKey(key)
		if fields != "" {
			r.Fields = strings.Split(fields, ";")
		}
		report.Results = append(report.Results, r)
	}
	return report, rows.Err()
}

func parseClass(s string) engine.Class {
	switch s {
	case "matching":
		return engine.Matching
	case "divergent":
		return engine.Divergent
	default:
		return engine.Missing
	}
}
