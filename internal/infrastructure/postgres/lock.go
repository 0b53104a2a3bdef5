package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lockName = "parksched.run"

// AdvisoryLock serialises runs across hosts sharing a database. The lock is
// session scoped, so it is held on a dedicated connection until released.
type AdvisoryLock struct {
	pool *pgxpool.Pool
	name string
}

func NewAdvisoryLock(pool *pgxpool.Pool) *AdvisoryLock {
	return &AdvisoryLock{pool: pool, name: lockName}
}

func (l *AdvisoryLock) TryAcquire(ctx context.Context) (func(), error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection for run lock: %w", err)
	}

	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtext($1))`, l.name).Scan(&ok); err != nil {
		conn.Release()
		return nil, fmt.Errorf("try run lock: %w", err)
	}
	if !ok {
		conn.Release()
		return nil, parking.ErrRunInProgress
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock(hashtext($1))`, l.name); err != nil {
			// A connection that cannot unlock must not go back to the pool
			// still holding the lock.
			_ = conn.Conn().Close(ctx)
		}
		conn.Release()
	}, nil
}
