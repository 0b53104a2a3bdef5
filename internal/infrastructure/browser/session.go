// Package browser drives a headless Chrome through rod and exposes it as the
// parking.Page primitives.
package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

type Config struct {
	// Bin is the Chrome binary; empty lets rod find or download one.
	Bin            string
	Headless       bool
	NoSandbox      bool
	ViewportWidth  int
	ViewportHeight int
}

func DefaultConfig() Config {
	return Config{
		Headless:       true,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
	}
}

// Launcher opens one Chrome process with one page per Open call.
type Launcher struct {
	cfg Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{cfg: cfg, log: log}
}

func (l *Launcher) Open(ctx context.Context) (parking.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ln := launcher.New().Headless(l.cfg.Headless).NoSandbox(l.cfg.NoSandbox)
	if l.cfg.Bin != "" {
		ln = ln.Bin(l.cfg.Bin)
	}
	controlURL, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	// The browser is not bound to ctx so Close still works after cancellation.
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		ln.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	p, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		ln.Kill()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if l.cfg.ViewportWidth > 0 && l.cfg.ViewportHeight > 0 {
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             l.cfg.ViewportWidth,
			Height:            l.cfg.ViewportHeight,
			DeviceScaleFactor: 1.0,
		}).Call(p); err != nil {
			l.log.Warn("failed to set viewport", zap.Error(err))
		}
	}

	l.log.Info("browser session opened", zap.Bool("headless", l.cfg.Headless))
	return &Session{launcher: ln, browser: b, page: &Page{page: p, log: l.log}, log: l.log}, nil
}

// Session is a launched browser and its single page.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *Page
	log      *zap.Logger
}

func (s *Session) Page() parking.Page { return s.page }

// Close closes the page and browser and removes the launcher's profile dir.
func (s *Session) Close() error {
	var errs []error
	if err := s.page.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close page: %w", err))
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
	s.log.Info("browser session closed")
	return errors.Join(errs...)
}
