//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPool(t *testing.T) *RunRepo {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := Open(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewRunRepo(pool)
}

func TestRunRepoRoundTrip(t *testing.T) {
	repo := openTestPool(t)
	ctx := context.Background()

	id := uuid.NewString()
	started := time.Now().UTC().Truncate(time.Microsecond).Add(time.Hour)
	require.NoError(t, repo.RunStarted(ctx, parking.Run{
		ID: id, StartedAt: started, Targets: parking.TargetDates{"8th June", "8 June"},
	}))

	runs, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Nil(t, runs[0].FinishedAt)

	finished := started.Add(time.Minute)
	require.NoError(t, repo.RunFinished(ctx, id, finished, parking.Outcome{Attempted: true, Succeeded: true, Spot: "42"}))

	runs, err = repo.List(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, runs[0].FinishedAt)
	assert.True(t, runs[0].FinishedAt.Equal(finished))
	assert.Equal(t, parking.Outcome{Attempted: true, Succeeded: true, Spot: "42"}, runs[0].Outcome)
	assert.Equal(t, parking.TargetDates{"8th June", "8 June"}, runs[0].Targets)
}

func TestAdvisoryLockExcludesSecondHolder(t *testing.T) {
	repo := openTestPool(t)
	ctx := context.Background()

	a := NewAdvisoryLock(repo.pool)
	b := NewAdvisoryLock(repo.pool)

	release, err := a.TryAcquire(ctx)
	require.NoError(t, err)

	_, err = b.TryAcquire(ctx)
	assert.ErrorIs(t, err, parking.ErrRunInProgress)

	release()
	release2, err := b.TryAcquire(ctx)
	require.NoError(t, err)
	release2()
}
