// Package parkalot drives the Parkalot web app: login, reserving a day from
// the calendar and confirming it under "My reservations".
package parkalot

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://app.parkalot.io"

// Selectors locate the site's controls. Text matches are case-insensitive
// substrings of the visible label.
type Selectors struct {
	Email          parking.Selector
	Password       parking.Selector
	LoginButton    parking.Selector
	DashboardReady parking.Selector
	// AuthenticatedRoute matches the URL the site redirects to after login.
	AuthenticatedRoute *regexp.Regexp

	AllDays        parking.Selector
	Card           parking.Selector
	ActionButton   parking.Selector
	ReserveLabel   string
	MyReservations parking.Selector
	ReleaseButton  parking.Selector
	SpotLabel      parking.Selector
}

func DefaultSelectors() Selectors {
	return Selectors{
		Email:              parking.Selector{CSS: `input[type="email"]`},
		Password:           parking.Selector{CSS: `input[type="password"]`},
		LoginButton:        parking.Selector{CSS: "button", Text: "LOG IN"},
		DashboardReady:     parking.Selector{CSS: "button", Text: "UPCOMING"},
		AuthenticatedRoute: regexp.MustCompile(`(?i)/client/?([?#].*)?$`),

		AllDays:        parking.Selector{CSS: "button", Text: "ALL DAYS"},
		Card:           parking.Selector{CSS: `div[class*="box-color"]`},
		ActionButton:   parking.Selector{CSS: "button"},
		ReserveLabel:   "reserve",
		MyReservations: parking.Selector{CSS: "button", Text: "MY RESERVATIONS"},
		ReleaseButton:  parking.Selector{CSS: "button", Text: "RELEASE"},
		SpotLabel:      parking.Selector{CSS: `[class*="spot"], [class*="label"]`},
	}
}

// Timings bound every wait against the site. The settle durations are fixed
// pauses after actions whose rendering gives no completion signal; they are
// a known source of flakiness when the site is slow.
type Timings struct {
	PageLoad  time.Duration
	Field     time.Duration
	Redirect  time.Duration
	Dashboard time.Duration
	Control   time.Duration
	Cards     time.Duration
	Release   time.Duration

	LoginSettle    time.Duration
	CalendarSettle time.Duration
	ReserveSettle  time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		PageLoad:  60 * time.Second,
		Field:     15 * time.Second,
		Redirect:  20 * time.Second,
		Dashboard: 20 * time.Second,
		Control:   10 * time.Second,
		Cards:     20 * time.Second,
		Release:   8 * time.Second,

		LoginSettle:    2 * time.Second,
		CalendarSettle: 5 * time.Second,
		ReserveSettle:  4 * time.Second,
	}
}

// Provider implements parking.Authenticator, parking.Reserver and
// parking.Verifier for the Parkalot site.
type Provider struct {
	BaseURL       string
	Selectors     Selectors
	Timings       Timings
	ScreenshotDir string
	Log           *zap.Logger

	// Sleep is replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

func New(baseURL string, log *zap.Logger) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Selectors:     DefaultSelectors(),
		Timings:       DefaultTimings(),
		ScreenshotDir: ".",
		Log:           log,
	}
}

func (p *Provider) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func (p *Provider) settle(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
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

// capture saves a full-page screenshot for later inspection. Failures are
// only logged.
func (p *Provider) capture(ctx context.Context, page parking.Page, name string) {
	path := filepath.Join(p.ScreenshotDir, name)
	if err := page.Screenshot(ctx, path); err != nil {
		p.logger().Warn("diagnostic screenshot failed", zap.String("path", path), zap.Error(err))
		return
	}
	p.logger().Info("diagnostic screenshot saved", zap.String("path", path))
}

// firstMatching returns the first card, in document order, whose text
// mentions one of dates, with that text.
func firstMatching(ctx context.Context, cards []parking.Element, dates parking.TargetDates) (parking.Element, int, string, error) {
	for i, c := range cards {
		text, err := c.Text(ctx)
		if err != nil {
			return nil, -1, "", err
		}
		text = strings.TrimSpace(text)
		if dates.Matches(text) {
			return c, i, text, nil
		}
	}
	return nil, -1, "", nil
}
