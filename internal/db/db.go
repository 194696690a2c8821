// Package db is the Postgres side of the service: a feed source for alerts
// and relief locations, and a sink for dispatched SOS events.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
    id              TEXT PRIMARY KEY,
    category        TEXT NOT NULL,
    title           TEXT NOT NULL,
    message         TEXT NOT NULL DEFAULT '',
    location        TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    priority        TEXT NOT NULL,
    source          TEXT NOT NULL,
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    action_required BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS relief_locations (
    id        TEXT PRIMARY KEY,
    name      TEXT NOT NULL,
    kind      TEXT NOT NULL,
    latitude  DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    capacity  INTEGER,
    available BOOLEAN,
    resources TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS sos_events (
    id            UUID PRIMARY KEY,
    type          TEXT NOT NULL,
    verified      BOOLEAN NOT NULL DEFAULT FALSE,
    latitude      DOUBLE PRECISION,
    longitude     DOUBLE PRECISION,
    accuracy      DOUBLE PRECISION,
    dispatched_at TIMESTAMPTZ NOT NULL
);`

// EnsureSchema creates the tables the service reads and writes.
func (d *DB) EnsureSchema(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (d *DB) Close() {
	d.Pool.Close()
}
