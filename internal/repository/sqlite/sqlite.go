// Package sqlite implements the journal's persistent store on an embedded
// SQLite file (modernc.org/sqlite, pure Go).
//
// LAYOUT:
//
//	food_entries  one row per logged food, indexed by calendar date
//	user_goals    at most one row (the "slot" column is UNIQUE and pinned to 1)
//
// Use ":memory:" as the path for a throwaway database in tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/food-journal/internal/apperror"

	// registers the "sqlite" driver with database/sql
	_ "modernc.org/sqlite"
)

// DB owns the single store connection for a session.
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the database at dbPath and runs the
// idempotent schema setup. Any failure to reach the file is reported as
// apperror.ErrStorageUnavailable.
func New(dbPath string) (*DB, error) {
	if err := ensureDir(dbPath); err != nil {
		return nil, apperror.StorageUnavailable(fmt.Errorf("sqlite: creating data directory: %w", err))
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperror.StorageUnavailable(fmt.Errorf("sqlite: opening database: %w", err))
	}

	// One connection: writes serialize, and ":memory:" stays a single database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, apperror.StorageUnavailable(fmt.Errorf("sqlite: pinging database: %w", err))
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, apperror.StorageUnavailable(fmt.Errorf("sqlite: setting WAL mode: %w", err))
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, apperror.StorageUnavailable(fmt.Errorf("sqlite: setting busy timeout: %w", err))
	}

	db := &DB{conn: conn}

	if err := db.Initialize(context.Background()); err != nil {
		conn.Close()
		return nil, apperror.StorageUnavailable(err)
	}

	return db, nil
}

// Close closes the store connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Initialize creates both collections and the date index if they are
// missing. It is safe to call any number of times.
func (db *DB) Initialize(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS food_entries (
			id         TEXT PRIMARY KEY,
			date       TEXT NOT NULL,
			food_id    TEXT NOT NULL DEFAULT '',
			food_name  TEXT NOT NULL,
			servings   REAL NOT NULL,
			calories   REAL NOT NULL DEFAULT 0,
			fat        REAL NOT NULL DEFAULT 0,
			protein    REAL NOT NULL DEFAULT 0,
			sodium     REAL NOT NULL DEFAULT 0,
			sugar      REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_food_entries_date ON food_entries(date);
	`)
	if err != nil {
		return fmt.Errorf("sqlite: creating food_entries table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_goals (
			id            TEXT PRIMARY KEY,
			slot          INTEGER NOT NULL DEFAULT 1 UNIQUE CHECK (slot = 1),
			calorie_limit REAL NOT NULL,
			sodium_limit  REAL NOT NULL,
			fat_limit     REAL NOT NULL,
			sugar_limit   REAL NOT NULL,
			protein_goal  REAL NOT NULL,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("sqlite: creating user_goals table: %w", err)
	}

	return nil
}

// ensureDir creates the parent directory of a file-backed database.
func ensureDir(dbPath string) error {
	if dbPath == "" || dbPath == ":memory:" || strings.HasPrefix(dbPath, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dbPath), 0o755)
}
