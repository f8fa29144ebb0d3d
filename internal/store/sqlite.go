// Package store persists scenario runs and diagnostic snapshots so past
// what-if analyses can be listed and replayed. The analytics core never
// touches it; commands save results after computation.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/wapp-insights/internal/analytics"
	"github.com/sells-group/wapp-insights/internal/dataset"
	"github.com/sells-group/wapp-insights/internal/model"
)

// ScenarioRun is a saved simulation with its inputs and result.
type ScenarioRun struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Input     model.ScenarioInput      `json:"input"`
	Result    analytics.ScenarioResult `json:"result"`
	CreatedAt time.Time                `json:"created_at"`
}

// DiagnosticSnapshot is a saved diagnosis with the filter that produced it.
type DiagnosticSnapshot struct {
	ID          string                         `json:"id"`
	Filter      dataset.Filter                 `json:"filter"`
	PeriodDays  int                            `json:"period_days"`
	Diagnostics []analytics.IndustryDiagnostic `json:"diagnostics"`
	CreatedAt   time.Time                      `json:"created_at"`
}

// SQLiteStore persists snapshots in a local SQLite database.
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
CREATE TABLE IF NOT EXISTS scenario_runs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	input      TEXT NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS diagnostic_snapshots (
	id          TEXT PRIMARY KEY,
	filter      TEXT NOT NULL,
	period_days INTEGER NOT NULL,
	diagnostics TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scenario_runs_created_at ON scenario_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_diagnostic_snapshots_created_at ON diagnostic_snapshots(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveScenarioRun records a simulation run and returns its ID.
func (s *SQLiteStore) SaveScenarioRun(ctx context.Context, name string, result analytics.ScenarioResult) (*ScenarioRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	inputJSON, err := json.Marshal(result.Input)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal input")
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scenario_runs (id, name, input, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, string(inputJSON), string(resultJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert scenario run")
	}

	return &ScenarioRun{
		ID:        id,
		Name:      name,
		Input:     result.Input,
		Result:    result,
		CreatedAt: now,
	}, nil
}

// ListScenarioRuns returns runs newest first, up to limit (0 = no limit).
func (s *SQLiteStore) ListScenarioRuns(ctx context.Context, limit int) ([]ScenarioRun, error) {
	query := `SELECT id, name, input, result, created_at FROM scenario_runs ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scenario runs")
	}
	defer rows.Close()

	var runs []ScenarioRun
	for rows.Next() {
		var run ScenarioRun
		var inputJSON, resultJSON string
		if err := rows.Scan(&run.ID, &run.Name, &inputJSON, &resultJSON, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan scenario run")
		}
		if err := json.Unmarshal([]byte(inputJSON), &run.Input); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal input %s", run.ID)
		}
		if err := json.Unmarshal([]byte(resultJSON), &run.Result); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal result %s", run.ID)
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate scenario runs")
}

// GetScenarioRun fetches one run by ID.
func (s *SQLiteStore) GetScenarioRun(ctx context.Context, id string) (*ScenarioRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, input, result, created_at FROM scenario_runs WHERE id = ?`, id,
	)

	var run ScenarioRun
	var inputJSON, resultJSON string
	if err := row.Scan(&run.ID, &run.Name, &inputJSON, &resultJSON, &run.CreatedAt); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: scenario run %s not found", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get scenario run %s", id)
	}
	if err := json.Unmarshal([]byte(inputJSON), &run.Input); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal input %s", id)
	}
	if err := json.Unmarshal([]byte(resultJSON), &run.Result); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal result %s", id)
	}
	return &run, nil
}

// SaveDiagnosticSnapshot records a diagnosis batch and returns its ID.
func (s *SQLiteStore) SaveDiagnosticSnapshot(ctx context.Context, filter dataset.Filter, periodDays int, diags []analytics.IndustryDiagnostic) (*DiagnosticSnapshot, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal filter")
	}
	diagsJSON, err := json.Marshal(diags)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal diagnostics")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diagnostic_snapshots (id, filter, period_days, diagnostics, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(filterJSON), periodDays, string(diagsJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert diagnostic snapshot")
	}

	return &DiagnosticSnapshot{
		ID:          id,
		Filter:      filter,
		PeriodDays:  periodDays,
		Diagnostics: diags,
		CreatedAt:   now,
	}, nil
}

// ListDiagnosticSnapshots returns snapshots newest first, up to limit
// (0 = no limit).
func (s *SQLiteStore) ListDiagnosticSnapshots(ctx context.Context, limit int) ([]DiagnosticSnapshot, error) {
	query := `SELECT id, filter, period_days, diagnostics, created_at FROM diagnostic_snapshots ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list diagnostic snapshots")
	}
	defer rows.Close()

	var snaps []DiagnosticSnapshot
	for rows.Next() {
		var snap DiagnosticSnapshot
		var filterJSON, diagsJSON string
		if err := rows.Scan(&snap.ID, &filterJSON, &snap.PeriodDays, &diagsJSON, &snap.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan diagnostic snapshot")
		}
		if err := json.Unmarshal([]byte(filterJSON), &snap.Filter); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal filter %s", snap.ID)
		}
		if err := json.Unmarshal([]byte(diagsJSON), &snap.Diagnostics); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal diagnostics %s", snap.ID)
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: iterate diagnostic snapshots")
}
