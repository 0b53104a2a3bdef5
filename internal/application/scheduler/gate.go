package scheduler

import (
	"context"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"go.uber.org/zap"
)

// Gate holds a run until the next occurrence of At in Location. Bookings on
// the site open at a fixed moment, so the run logs in early and waits here.
type Gate struct {
	// Enabled false turns Wait into a logged no-op, for manual and test runs.
	Enabled  bool
	At       parking.TimeOfDay
	Location *time.Location

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
	Log   *zap.Logger
}

// Next returns the target instant today if it is still ahead of now,
// otherwise the same time tomorrow.
func (g Gate) Next(now time.Time) time.Time {
	loc := g.Location
	if loc == nil {
		loc = time.UTC
	}
	target := g.At.On(now, loc)
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

func (g Gate) Wait(ctx context.Context) error {
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}
	if !g.Enabled {
		log.Info("scheduler gate disabled; running immediately")
		return nil
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	start := now()
	target := g.Next(start)
	d := target.Sub(start)
	log.Info("waiting for reservation time",
		zap.Time("until", target),
		zap.Duration("delay", d))

	sleep := g.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	if err := sleep(ctx, d); err != nil {
		return err
	}
	log.Info("reservation time reached")
	return nil
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
