package parkalot

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"go.uber.org/zap"
)

// Login signs in and returns once the dashboard has rendered. It makes a
// single attempt.
func (p *Provider) Login(ctx context.Context, page parking.Page, creds parking.Credentials) error {
	log := p.logger()
	sel, tm := p.Selectors, p.Timings

	loginURL := p.BaseURL + "/login/"
	log.Info("navigating to login page", zap.String("url", loginURL))
	if err := page.Navigate(ctx, loginURL, tm.PageLoad); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := p.settle(ctx, tm.LoginSettle); err != nil {
		return err
	}

	log.Info("waiting for email field")
	if _, err := page.WaitFor(ctx, sel.Email, tm.Field); err != nil {
		return fmt.Errorf("login form not found, the site may have changed: %w", err)
	}

	log.Info("filling credentials", zap.String("identity", creds.Identity))
	if err := page.Fill(ctx, sel.Email, creds.Identity, tm.Field); err != nil {
		return err
	}
	if err := page.Fill(ctx, sel.Password, creds.Secret, tm.Field); err != nil {
		return err
	}

	log.Info("submitting login")
	if err := page.Click(ctx, sel.LoginButton, tm.Control); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}

	log.Info("waiting for dashboard redirect", zap.Stringer("pattern", sel.AuthenticatedRoute))
	if err := page.WaitURL(ctx, sel.AuthenticatedRoute, tm.Redirect); err != nil {
		if errors.Is(err, parking.ErrNavigationTimeout) {
			return fmt.Errorf("%w: no redirect after login (wrong credentials or site down): %w", parking.ErrAuthTimeout, err)
		}
		return err
	}

	// The redirect lands before client-side rendering finishes.
	if err := p.settle(ctx, tm.LoginSettle); err != nil {
		return err
	}
	if _, err := page.WaitFor(ctx, sel.DashboardReady, tm.Dashboard); err != nil {
		return fmt.Errorf("dashboard not ready: %w", err)
	}
	log.Info("logged in; dashboard ready")
	return nil
}
