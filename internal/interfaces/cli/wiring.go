package cli

import (
	"context"

	"github.com/example/parking-scheduler/internal/application/scheduler"
	"github.com/example/parking-scheduler/internal/application/usecases"
	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/example/parking-scheduler/internal/infrastructure/browser"
	"github.com/example/parking-scheduler/internal/infrastructure/notify"
	"github.com/example/parking-scheduler/internal/infrastructure/parkalot"
	"github.com/example/parking-scheduler/internal/infrastructure/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func (a *app) launcher() *browser.Launcher {
	bc := browser.DefaultConfig()
	bc.Bin = a.cfg.ChromeBin
	bc.Headless = a.cfg.Headless
	bc.NoSandbox = a.cfg.NoSandbox
	return browser.New(bc, a.log.Named("browser"))
}

func (a *app) provider() *parkalot.Provider {
	p := parkalot.New(a.cfg.BaseURL, a.log.Named("parkalot"))
	p.Timings = a.cfg.Timings()
	p.ScreenshotDir = a.cfg.ScreenshotDir
	return p
}

// openDB returns nil without DATABASE_URL. The caller closes the pool.
func (a *app) openDB(ctx context.Context) (*pgxpool.Pool, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, nil
	}
	return postgres.Open(ctx, a.cfg.DatabaseURL)
}

// optionalDB is openDB for runs: an unreachable database costs the run its
// history and lock, not the booking attempt.
func (a *app) optionalDB(ctx context.Context) *pgxpool.Pool {
	pool, err := a.openDB(ctx)
	if err != nil {
		a.log.Warn("database unavailable; running without history or run lock", zap.Error(err))
		return nil
	}
	return pool
}

func (a *app) reserveParking(dates parking.DateResolver, gateEnabled bool, pool *pgxpool.Pool) usecases.ReserveParking {
	site := a.provider()
	uc := usecases.ReserveParking{
		Credentials: a.cfg.Credentials,
		Dates:       dates,
		Sessions:    a.launcher(),
		Auth:        site,
		Gate: scheduler.Gate{
			Enabled:  gateEnabled,
			At:       a.cfg.ReserveAt,
			Location: a.cfg.Location,
			Log:      a.log.Named("gate"),
		},
		Reserver:      site,
		Verifier:      site,
		Notifier:      notify.New(a.cfg.NotifierSettings(), a.log.Named("notify")),
		ReloadTimeout: site.Timings.PageLoad,
		Now:           a.now,
		Log:           a.log,
	}
	if pool != nil {
		uc.Lock = postgres.NewAdvisoryLock(pool)
		uc.History = postgres.NewRunRepo(pool)
	}
	return uc
}
