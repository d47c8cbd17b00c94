// Package storage keeps the history of cart runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one play session of a cart.
type Run struct {
	ID         int64
	CartID     string
	Language   string
	Player     string // "local" or the SSH user name
	Loaded     bool   // whether the cart code evaluated successfully
	Frames     int
	HookErrors int
	CreatedAt  time.Time
}

// CartStats aggregates every run of one cart.
type CartStats struct {
	CartID      string
	Runs        int
	FailedLoads int
	TotalFrames int64
	HookErrors  int64
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cart_id TEXT NOT NULL,
			language TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT 'local',
			loaded INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			hook_errors INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_cart_id ON runs(cart_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.Player == "" {
		r.Player = "local"
	}
	result, err := s.db.Exec(
		`INSERT INTO runs (cart_id, language, player, loaded, frames, hook_errors)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.CartID, r.Language, r.Player, r.Loaded, r.Frames, r.HookErrors,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns returns the newest runs across all carts.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, cart_id, language, player, loaded, frames, hook_errors, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// CartRuns returns the newest runs of one cart.
func (s *Store) CartRuns(cartID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, cart_id, language, player, loaded, frames, hook_errors, created_at
		 FROM runs
		 WHERE cart_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		cartID, limit,
	)
}

// ClearRuns deletes the history of one cart.
func (s *Store) ClearRuns(cartID string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE cart_id = ?", cartID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats aggregates the runs of one cart. A cart that never ran yields zero
// counts and a zero LastPlayed.
func (s *Store) Stats(cartID string) (*CartStats, error) {
	stats := &CartStats{CartID: cartID}
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN loaded = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(frames), 0),
		        COALESCE(SUM(hook_errors), 0)
		 FROM runs WHERE cart_id = ?`,
		cartID,
	).Scan(&stats.Runs, &stats.FailedLoads, &stats.TotalFrames, &stats.HookErrors)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get cart stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE cart_id = ? ORDER BY id DESC LIMIT 1`,
		cartID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}
	return stats, nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.CartID, &r.Language, &r.Player, &r.Loaded, &r.Frames, &r.HookErrors, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles both driver-decoded and textual DATETIME columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
