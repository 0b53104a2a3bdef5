package usecases

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"go.uber.org/zap"
)

// CheckLogin signs in and saves a screenshot of the dashboard without
// touching the calendar.
type CheckLogin struct {
	Credentials   func() (parking.Credentials, error)
	Sessions      parking.SessionOpener
	Auth          parking.Authenticator
	ScreenshotDir string
	Log           *zap.Logger
}

func (u CheckLogin) Execute(ctx context.Context) (err error) {
	if u.Credentials == nil || u.Sessions == nil || u.Auth == nil {
		return fmt.Errorf("check login is not fully wired")
	}
	log := u.Log
	if log == nil {
		log = zap.NewNop()
	}

	creds, err := u.Credentials()
	if err != nil {
		return err
	}
	session, err := u.Sessions.Open(ctx)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer func() {
		err = errors.Join(err, session.Close())
	}()

	page := session.Page()
	if err := u.Auth.Login(ctx, page, creds); err != nil {
		return err
	}

	path := filepath.Join(u.ScreenshotDir, "login_check.png")
	if err := page.Screenshot(ctx, path); err != nil {
		log.Warn("login check screenshot failed", zap.Error(err))
	} else {
		log.Info("login check screenshot saved", zap.String("path", path))
	}
	return nil
}
