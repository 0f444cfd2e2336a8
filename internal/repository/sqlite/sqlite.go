// Package sqlite implements the repository interfaces on SQLite.
//
// SQLite is embedded — a single file, no server process — which fits a
// two-person app deployed on one box. We use modernc.org/sqlite, a pure Go
// driver, so builds need no C toolchain and cross-compile cleanly.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. New creates it, Close releases it; the server owns the
// lifecycle.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests for an isolated throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time, so extra pooled connections only
	// add lock contention. A single connection also makes ":memory:" behave:
	// each pooled connection would otherwise see its own empty database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — without it
	// SQLite locks the whole file per write, which stalls a web server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// DateStore implements repository.DateRepository over the shared pool.
type DateStore struct {
	db *DB
}

func NewDateStore(db *DB) *DateStore {
	return &DateStore{db: db}
}

// CategoryStore implements repository.CategoryRepository over the shared pool.
type CategoryStore struct {
	db *DB
}

func NewCategoryStore(db *DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent, so it is safe to run on every start.
//
// Note there is deliberately no foreign key from dates.category to
// categories: the category field is a name-valued convention, and a date
// referencing a deleted category is an accepted inconsistency.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS dates (
			id            TEXT PRIMARY KEY,
			owner_id      TEXT NOT NULL,
			title         TEXT NOT NULL,
			notes         TEXT NOT NULL DEFAULT '',
			category      TEXT NOT NULL,
			images        TEXT NOT NULL DEFAULT '[]',
			done          INTEGER NOT NULL DEFAULT 0,
			date_realised DATETIME,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_dates_owner_id   ON dates(owner_id);
		CREATE INDEX IF NOT EXISTS idx_dates_created_at ON dates(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating dates table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			color      TEXT NOT NULL DEFAULT '#6366f1',
			icon       TEXT NOT NULL DEFAULT '',
			is_default INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating categories table: %w", err)
	}

	return nil
}
