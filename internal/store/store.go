// Package store handles SQLite persistence of evaluation runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aklabib/cswer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			reference_path TEXT NOT NULL,
			hypothesis_path TEXT NOT NULL,
			char_level INTEGER NOT NULL,
			cer_mode TEXT NOT NULL,
			sentences INTEGER NOT NULL,
			overall_wer REAL NOT NULL,
			overall_cer REAL NOT NULL,
			substitutions INTEGER NOT NULL,
			deletions INTEGER NOT NULL,
			insertions INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_language_stats (
			run_id INTEGER NOT NULL,
			class TEXT NOT NULL,
			ref_words INTEGER NOT NULL,
			wer REAL NOT NULL,
			cer REAL NOT NULL,
			substitutions INTEGER NOT NULL,
			deletions INTEGER NOT NULL,
			insertions INTEGER NOT NULL,
			PRIMARY KEY (run_id, class)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed evaluation run and its per-language rows.
func (s *Store) InsertRun(ctx context.Context, run model.RunStats, languages []model.RunLanguageStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, reference_path, hypothesis_path, char_level, cer_mode, sentences, overall_wer, overall_cer, substitutions, deletions, insertions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339Nano),
		run.ReferencePath,
		run.HypothesisPath,
		boolToInt(run.CharLevel),
		run.CERMode,
		run.Sentences,
		run.OverallWER,
		run.OverallCER,
		run.Substitutions,
		run.Deletions,
		run.Insertions,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, row := range languages {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO run_language_stats (run_id, class, ref_words, wer, cer, substitutions, deletions, insertions)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			row.Class,
			row.RefWords,
			row.WER,
			row.CER,
			row.Substitutions,
			row.Deletions,
			row.Insertions,
		); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns stored runs ordered oldest first, optionally limited to
// the most recent N.
func (s *Store) ListRuns(ctx context.Context, last int) ([]model.RunAggregate, error) {
	query := `SELECT id, started_at, reference_path, hypothesis_path, char_level, sentences, overall_wer, overall_cer
		FROM runs ORDER BY started_at ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	var runs []model.RunAggregate
	for rows.Next() {
		var run model.RunAggregate
		var startedAt string
		var charLevel int
		if err := rows.Scan(&run.RunID, &startedAt, &run.ReferencePath, &run.HypothesisPath, &charLevel, &run.Sentences, &run.OverallWER, &run.OverallCER); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		run.StartedAt = parsed
		run.CharLevel = charLevel != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if last > 0 && len(runs) > last {
		runs = runs[len(runs)-last:]
	}
	return runs, nil
}

// ListRunLanguages returns the stored per-language rows for a run.
func (s *Store) ListRunLanguages(ctx context.Context, runID int64) ([]model.RunLanguageStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT class, ref_words, wer, cer, substitutions, deletions, insertions
		 FROM run_language_stats WHERE run_id = ? ORDER BY class ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	var out []model.RunLanguageStats
	for rows.Next() {
		var row model.RunLanguageStats
		if err := rows.Scan(&row.Class, &row.RefWords, &row.WER, &row.CER, &row.Substitutions, &row.Deletions, &row.Insertions); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
