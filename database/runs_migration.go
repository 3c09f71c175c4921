package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// MigrateNormalizationRuns creates the runs and run_results tables. Safe to
// call on every startup.
func MigrateNormalizationRuns(db *sql.DB) error {
	log := slog.Default().With("component", "database")
	log.Info("running migration: normalization runs")

	createRunsSQL := `
		CREATE TABLE IF NOT EXISTS normalization_runs (
			id TEXT PRIMARY KEY,
			source_file TEXT NOT NULL DEFAULT '',
			mode TEXT NOT NULL,
			status TEXT CHECK(status IN ('running', 'completed', 'failed')) DEFAULT 'running',
			total_rows INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			finished_at TIMESTAMP
		)
	`
	if _, err := db.Exec(createRunsSQL); err != nil {
		errStr := strings.ToLower(err.Error())
		if !strings.Contains(errStr, "already exists") {
			return fmt.Errorf("failed to create normalization_runs table: %w", err)
		}
	}

	createResultsSQL := `
		CREATE TABLE IF NOT EXISTS run_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			original TEXT NOT NULL,
			normalized TEXT NOT NULL,
			individual INTEGER NOT NULL DEFAULT 0,
			cluster TEXT NOT NULL DEFAULT '',
			confidence TEXT NOT NULL DEFAULT '',
			method TEXT NOT NULL DEFAULT '',
			row_count INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY(run_id) REFERENCES normalization_runs(id) ON DELETE CASCADE
		)
	`
	if _, err := db.Exec(createResultsSQL); err != nil {
		errStr := strings.ToLower(err.Error())
		if !strings.Contains(errStr, "already exists") {
			return fmt.Errorf("failed to create run_results table: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_run_results_run_id ON run_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_run_results_run_position ON run_results(run_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_normalization_runs_started_at ON normalization_runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_normalization_runs_status ON normalization_runs(status)`,
	}
	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			errStr := strings.ToLower(err.Error())
			if !strings.Contains(errStr, "already exists") {
				return fmt.Errorf("failed to create index: %w - %s", err, indexSQL)
			}
		}
	}

	log.Info("normalization runs migration completed")
	return nil
}
