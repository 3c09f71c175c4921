package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"suppliernorm/normalization"
)

// Run is one normalization run over an uploaded file.
type Run struct {
	ID         string     `json:"id"`
	SourceFile string     `json:"source_file"`
	Mode       string     `json:"mode"`
	Status     string     `json:"status"`
	TotalRows  int        `json:"total_rows"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Store persists runs and their per-row results in SQLite.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the SQLite database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := MigrateNormalizationRuns(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		db:  db,
		log: slog.Default().With("component", "database"),
	}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// CreateRun records a new run in the running state and returns it.
func (s *Store) CreateRun(sourceFile, mode string, totalRows int) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		SourceFile: sourceFile,
		Mode:       mode,
		Status:     RunStatusRunning,
		TotalRows:  totalRows,
		StartedAt:  time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO normalization_runs (id, source_file, mode, status, total_rows, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceFile, run.Mode, run.Status, run.TotalRows, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	s.log.Info("run created", "run_id", run.ID, "source", sourceFile, "rows", totalRows)
	return run, nil
}

// FinishRun marks a run completed or failed.
func (s *Store) FinishRun(id, status string) error {
	res, err := s.db.Exec(
		`UPDATE normalization_runs SET status = ?, finished_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// GetRun loads a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, source_file, mode, status, total_rows, started_at, finished_at
		 FROM normalization_runs WHERE id = ?`, id,
	)
	var run Run
	var finished sql.NullTime
	err := row.Scan(&run.ID, &run.SourceFile, &run.Mode, &run.Status,
		&run.TotalRows, &run.StartedAt, &finished)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, source_file, mode, status, total_rows, started_at, finished_at
		 FROM normalization_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.SourceFile, &run.Mode, &run.Status,
			&run.TotalRows, &run.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveResults stores the per-row results of a run in one transaction,
// preserving input order through the position column.
func (s *Store) SaveResults(runID string, results []normalization.NormalizationResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO run_results (run_id, position, original, normalized, individual, cluster, confidence, method, row_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		individual := 0
		if r.Individual {
			individual = 1
		}
		if _, err := stmt.Exec(runID, i, r.Original, r.Normalized, individual,
			r.Cluster, r.Confidence, r.Method, r.Count); err != nil {
			return fmt.Errorf("failed to insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	s.log.Info("results saved", "run_id", runID, "rows", len(results))
	return nil
}

// GetResults loads a run's results in input order.
func (s *Store) GetResults(runID string) ([]normalization.NormalizationResult, error) {
	rows, err := s.db.Query(
		`SELECT original, normalized, individual, cluster, confidence, method, row_count
		 FROM run_results WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []normalization.NormalizationResult
	for rows.Next() {
		var r normalization.NormalizationResult
		var individual int
		if err := rows.Scan(&r.Original, &r.Normalized, &individual,
			&r.Cluster, &r.Confidence, &r.Method, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Individual = individual != 0
		results = append(results, r)
	}
	return results, rows.Err()
}
