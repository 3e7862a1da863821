// Package store keeps the SQLite load history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/runboard/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout has a fixed width so loaded_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for load records. Only the file path and the load
// outcome are stored, never the rows themselves.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate history db: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS loads (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			loaded_at TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			runner_count INTEGER NOT NULL,
			total_miles REAL NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_loads_loaded_at ON loads(loaded_at);`,
		`CREATE INDEX IF NOT EXISTS idx_loads_path ON loads(path);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertLoad stores one load attempt and returns its id.
func (s *Store) InsertLoad(ctx context.Context, rec model.LoadRecord) (int64, error) {
	if rec.LoadedAt.IsZero() {
		rec.LoadedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO loads (path, loaded_at, row_count, runner_count, total_miles, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Path,
		rec.LoadedAt.UTC().Format(timeLayout),
		rec.Rows,
		rec.Runners,
		rec.TotalMiles,
		rec.Error,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListLoads returns up to limit load records, newest first.
func (s *Store) ListLoads(ctx context.Context, limit int) ([]model.LoadRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, loaded_at, row_count, runner_count, total_miles, error
		 FROM loads
		 ORDER BY loaded_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.LoadRecord
	for rows.Next() {
		var rec model.LoadRecord
		var loadedAt string
		if err := rows.Scan(&rec.ID, &rec.Path, &loadedAt, &rec.Rows, &rec.Runners, &rec.TotalMiles, &rec.Error); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, loadedAt)
		if err != nil {
			return nil, err
		}
		rec.LoadedAt = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// RecentPaths returns distinct paths of successful loads, newest first.
func (s *Store) RecentPaths(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT path
		 FROM loads
		 WHERE error = ''
		 GROUP BY path
		 ORDER BY MAX(loaded_at) DESC, MAX(id) DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}
