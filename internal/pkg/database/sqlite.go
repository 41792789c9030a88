package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteTimeLayout is how punch timestamps are stored: UTC, fixed width, so
// lexical order equals time order.
const SQLiteTimeLayout = "2006-01-02T15:04:05.000000Z"

// SQLiteDB is an embedded punch store for offline analysis and tests.
type SQLiteDB struct {
	*sql.DB
}

// NewSQLiteDB opens path and creates the schema. Use ":memory:" for a
// throwaway database; it is pinned to one connection so every query sees it.
func NewSQLiteDB(ctx context.Context, path string) (*SQLiteDB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteDB{DB: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (db *SQLiteDB) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id          INTEGER PRIMARY KEY,
		first_name  TEXT NOT NULL,
		last_name   TEXT NOT NULL,
		department  TEXT,
		email       TEXT
	);

	CREATE TABLE IF NOT EXISTS punches (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL,
		punched_at  TEXT NOT NULL,
		priority    INTEGER,
		ignore_flag INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_punches_employee_time ON punches (employee_id, punched_at);
	CREATE INDEX IF NOT EXISTS idx_punches_time ON punches (punched_at);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}
