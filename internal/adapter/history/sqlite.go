package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"build-notifier/internal/domain/model"
	"build-notifier/internal/domain/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	project_path TEXT    NOT NULL,
	number       INTEGER NOT NULL,
	display_name TEXT    NOT NULL,
	outcome      TEXT    NOT NULL,
	recorded_at  INTEGER NOT NULL DEFAULT (unixepoch()),
	PRIMARY KEY (project_path, number)
);
`

// Store keeps finished builds in a SQLite database.
type Store struct {
	db *sql.DB
}

var _ ports.BuildHistory = (*Store)(nil)

// Open opens (and migrates) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous = NORMAL")

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &Store{db: db}, nil
}

// Record stores a finished build, replacing an earlier record of the same build.
func (s *Store) Record(ctx context.Context, rec model.BuildRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (project_path, number, display_name, outcome) VALUES (?, ?, ?, ?)
		 ON CONFLICT (project_path, number) DO UPDATE SET display_name = excluded.display_name, outcome = excluded.outcome`,
		rec.ProjectPath, rec.Number, rec.DisplayName, string(rec.Outcome.Effective()))
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// Previous returns the outcome of the latest recorded build numbered below number.
func (s *Store) Previous(ctx context.Context, projectPath string, number int64) (model.Outcome, bool, error) {
	var outcome string
	err := s.db.QueryRowContext(ctx,
		`SELECT outcome FROM builds WHERE project_path = ? AND number < ? ORDER BY number DESC LIMIT 1`,
		projectPath, number).Scan(&outcome)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query previous build: %w", err)
	}
	return model.ParseOutcome(outcome), true, nil
}

// Prune keeps the newest keepPerProject builds of each project and deletes the rest.
func (s *Store) Prune(ctx context.Context, keepPerProject int) (int64, error) {
	if keepPerProject <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM builds WHERE rowid IN (
			SELECT rowid FROM (
				SELECT rowid, ROW_NUMBER() OVER (PARTITION BY project_path ORDER BY number DESC) AS rn
				FROM builds
			) WHERE rn > ?
		)`, keepPerProject)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
