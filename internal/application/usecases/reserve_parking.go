package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	verifyFailedMessage  = "Reservation appeared to succeed but could not be verified"
	defaultReloadTimeout = 60 * time.Second
)

// ReserveParking runs one booking attempt end to end: log in, wait for the
// booking window, reserve the target day, confirm it and report the outcome.
// Every step is tried once. Lock and History are optional.
type ReserveParking struct {
	Credentials func() (parking.Credentials, error)
	Dates       parking.DateResolver
	Sessions    parking.SessionOpener
	Auth        parking.Authenticator
	Gate        parking.Gate
	Reserver    parking.Reserver
	Verifier    parking.Verifier
	Notifier    parking.Notifier

	Lock    parking.RunLock
	History parking.RunRecorder

	ReloadTimeout time.Duration
	Now           func() time.Time
	Log           *zap.Logger
}

// Execute returns an error only when the run could not start: missing
// credentials or a run lock held elsewhere. Failures after that are reported
// through the Notifier and the returned Run's Outcome.
func (u ReserveParking) Execute(ctx context.Context) (parking.Run, error) {
	log := u.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := u.Now
	if now == nil {
		now = time.Now
	}
	if err := u.validate(); err != nil {
		return parking.Run{}, err
	}

	creds, err := u.Credentials()
	if err != nil {
		log.Error("cannot start run", zap.Error(err))
		return parking.Run{}, err
	}

	run := parking.Run{ID: uuid.NewString(), StartedAt: now()}
	log = log.With(zap.String("run_id", run.ID))
	run.Targets = u.Dates.Resolve(run.StartedAt)
	log.Info("run started", zap.Strings("targets", run.Targets))

	if u.Lock != nil {
		release, err := u.Lock.TryAcquire(ctx)
		if err != nil {
			log.Error("run lock not acquired", zap.Error(err))
			return run, err
		}
		defer release()
	}

	if u.History != nil {
		if err := u.History.RunStarted(ctx, run); err != nil {
			log.Warn("recording run start failed", zap.Error(err))
		}
	}

	run.Outcome = u.attempt(ctx, log, creds, run.Targets)

	finished := now()
	run.FinishedAt = &finished
	if u.History != nil {
		// The run context may already be cancelled; the record should still land.
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := u.History.RunFinished(hctx, run.ID, finished, run.Outcome); err != nil {
			log.Warn("recording run finish failed", zap.Error(err))
		}
	}

	fields := []zap.Field{
		zap.Bool("attempted", run.Outcome.Attempted),
		zap.Bool("succeeded", run.Outcome.Succeeded),
		zap.Duration("elapsed", finished.Sub(run.StartedAt)),
	}
	if run.Outcome.Succeeded {
		log.Info("run finished: reservation confirmed", append(fields, zap.String("spot", run.Outcome.Spot))...)
	} else {
		log.Warn("run finished: reservation failed", append(fields, zap.String("error", run.Outcome.Error))...)
	}
	return run, nil
}

// attempt owns the browser session. The outcome is sent before the session
// is closed, and the session is closed on every path.
func (u ReserveParking) attempt(ctx context.Context, log *zap.Logger, creds parking.Credentials, dates parking.TargetDates) parking.Outcome {
	session, err := u.Sessions.Open(ctx)
	if err != nil {
		out := failed(fmt.Errorf("start browser: %w", err), false)
		u.notify(log, dates, out)
		return out
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("browser session close failed", zap.Error(err))
			return
		}
		log.Info("browser session closed")
	}()

	out := u.drive(ctx, log, session.Page(), creds, dates)
	u.notify(log, dates, out)
	return out
}

func (u ReserveParking) drive(ctx context.Context, log *zap.Logger, page parking.Page, creds parking.Credentials, dates parking.TargetDates) parking.Outcome {
	if err := u.Auth.Login(ctx, page, creds); err != nil {
		return failed(fmt.Errorf("login: %w", err), false)
	}
	if err := u.Gate.Wait(ctx); err != nil {
		return failed(fmt.Errorf("wait for booking window: %w", err), false)
	}

	timeout := u.ReloadTimeout
	if timeout <= 0 {
		timeout = defaultReloadTimeout
	}
	log.Info("reloading calendar")
	if err := page.Reload(ctx, timeout); err != nil {
		return failed(fmt.Errorf("reload calendar: %w", err), false)
	}

	ok, err := u.Reserver.Reserve(ctx, page, dates)
	if err != nil {
		return failed(fmt.Errorf("reserve: %w", err), false)
	}
	if !ok {
		err := fmt.Errorf("%w: Could not find a RESERVE button for any of %s", parking.ErrReservationNotFound, dates)
		log.Error("reservation not attempted", zap.Error(err))
		return parking.Outcome{Error: "Could not find a RESERVE button for any of " + dates.String()}
	}

	v, err := u.Verifier.Verify(ctx, page, dates)
	if err != nil {
		return failed(fmt.Errorf("verify: %w", err), true)
	}
	if !v.Confirmed {
		log.Error("reservation not confirmed", zap.Error(parking.ErrVerificationFailed))
		return parking.Outcome{Attempted: true, Error: verifyFailedMessage}
	}
	return parking.Outcome{Attempted: true, Succeeded: true, Spot: v.Spot}
}

func (u ReserveParking) notify(log *zap.Logger, dates parking.TargetDates, out parking.Outcome) {
	var sent bool
	if out.Succeeded {
		sent = u.Notifier.SendSuccess(dates, out.Spot)
	} else {
		sent = u.Notifier.SendFailure(dates, out.Error)
	}
	if !sent {
		log.Warn("outcome notification not delivered")
	}
}

func (u ReserveParking) validate() error {
	switch {
	case u.Credentials == nil:
		return errors.New("credentials source is nil")
	case u.Dates == nil, u.Sessions == nil, u.Auth == nil, u.Gate == nil,
		u.Reserver == nil, u.Verifier == nil, u.Notifier == nil:
		return errors.New("reserve parking is not fully wired")
	}
	return nil
}

func failed(err error, attempted bool) parking.Outcome {
	return parking.Outcome{Attempted: attempted, Error: err.Error()}
}
