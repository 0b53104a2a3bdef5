package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS parking_runs (
	id TEXT PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ,
	targets TEXT[] NOT NULL DEFAULT '{}',
	attempted BOOLEAN NOT NULL DEFAULT false,
	succeeded BOOLEAN NOT NULL DEFAULT false,
	spot TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_parking_runs_started_at ON parking_runs(started_at DESC);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
