package postgres

import (
	"context"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepo records one row per run in parking_runs.
type RunRepo struct{ pool *pgxpool.Pool }

func NewRunRepo(pool *pgxpool.Pool) *RunRepo { return &RunRepo{pool: pool} }

func (r *RunRepo) RunStarted(ctx context.Context, run parking.Run) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO parking_runs (id, started_at, targets) VALUES ($1,$2,$3)`,
		run.ID, run.StartedAt.UTC(), []string(run.Targets),
	)
	return err
}

func (r *RunRepo) RunFinished(ctx context.Context, id string, finishedAt time.Time, out parking.Outcome) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE parking_runs
		SET finished_at=$2, attempted=$3, succeeded=$4, spot=$5, error=$6
		WHERE id=$1
	`, id, finishedAt.UTC(), out.Attempted, out.Succeeded, out.Spot, out.Error)
	return err
}

// List returns the most recent runs first.
func (r *RunRepo) List(ctx context.Context, limit int) ([]parking.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, started_at, finished_at, targets, attempted, succeeded, spot, error
		FROM parking_runs ORDER BY started_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []parking.Run
	for rows.Next() {
		var (
			run     parking.Run
			targets []string
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &targets,
			&run.Outcome.Attempted, &run.Outcome.Succeeded, &run.Outcome.Spot, &run.Outcome.Error); err != nil {
			return nil, err
		}
		run.Targets = parking.TargetDates(targets)
		out = append(out, run)
	}
	return out, rows.Err()
}
