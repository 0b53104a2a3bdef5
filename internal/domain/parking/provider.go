package parking

import (
	"context"
	"regexp"
	"time"
)

// Selector addresses page elements by CSS and, optionally, by a
// case-insensitive substring of their visible text.
type Selector struct {
	CSS  string
	Text string
}

// Page is the small set of primitives the site is driven through.
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Reload(ctx context.Context, timeout time.Duration) error
	WaitURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) error
	WaitFor(ctx context.Context, sel Selector, timeout time.Duration) (Element, error)
	Fill(ctx context.Context, sel Selector, value string, timeout time.Duration) error
	Click(ctx context.Context, sel Selector, timeout time.Duration) error
	Elements(ctx context.Context, sel Selector) ([]Element, error)
	Screenshot(ctx context.Context, path string) error
}

// Element is a rendered node found on a Page.
type Element interface {
	Text(ctx context.Context) (string, error)
	Elements(ctx context.Context, sel Selector) ([]Element, error)
	WaitFor(ctx context.Context, sel Selector, timeout time.Duration) (Element, error)
	// Activate fires the element's click handler directly, without scrolling
	// it into view or checking visibility.
	Activate(ctx context.Context) error
}

// Session owns one browser process and its single page.
type Session interface {
	Page() Page
	Close() error
}

type SessionOpener interface {
	Open(ctx context.Context) (Session, error)
}

type DateResolver interface {
	Resolve(now time.Time) TargetDates
}

type Authenticator interface {
	Login(ctx context.Context, page Page, creds Credentials) error
}

type Gate interface {
	Wait(ctx context.Context) error
}

// Reserver activates the reserve control on the card for dates. It reports
// false without an error when no card or control matched.
type Reserver interface {
	Reserve(ctx context.Context, page Page, dates TargetDates) (bool, error)
}

type Verifier interface {
	Verify(ctx context.Context, page Page, dates TargetDates) (Verification, error)
}

// Notifier reports the final outcome. Delivery problems are logged and
// reported as false, never returned or raised.
type Notifier interface {
	SendSuccess(dates TargetDates, spot string) bool
	SendFailure(dates TargetDates, message string) bool
}

type RunLock interface {
	TryAcquire(ctx context.Context) (release func(), err error)
}

type RunRecorder interface {
	RunStarted(ctx context.Context, run Run) error
	RunFinished(ctx context.Context, id string, finishedAt time.Time, out Outcome) error
}
