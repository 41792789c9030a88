package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	*pgxpool.Pool
}

func NewPostgreSQLDB(ctx context.Context, dsn string) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PostgreSQLSchema creates the tables the repositories read from.
const PostgreSQLSchema = `
CREATE TABLE IF NOT EXISTS employees (
	id          BIGINT PRIMARY KEY,
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL,
	department  TEXT,
	email       TEXT
);

CREATE TABLE IF NOT EXISTS punches (
	id          BIGSERIAL PRIMARY KEY,
	employee_id BIGINT NOT NULL,
	punched_at  TIMESTAMPTZ NOT NULL,
	priority    INTEGER,
	ignore_flag INTEGER
);

CREATE INDEX IF NOT EXISTS idx_punches_employee_time ON punches (employee_id, punched_at);
CREATE INDEX IF NOT EXISTS idx_punches_time ON punches (punched_at);
`

// Migrate applies PostgreSQLSchema.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Exec(ctx, PostgreSQLSchema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
