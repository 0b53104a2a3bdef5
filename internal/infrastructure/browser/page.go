package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

const (
	urlPollInterval     = 250 * time.Millisecond
	elementPollInterval = 100 * time.Millisecond
)

// Page adapts a rod page to parking.Page. Waits are bounded by the timeout
// passed to each call; an exceeded wait maps to the parking sentinel errors.
type Page struct {
	page *rod.Page
	log  *zap.Logger
}

func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	tp := p.page.Context(ctx).Timeout(timeout)
	defer tp.CancelTimeout()
	if err := tp.Navigate(url); err != nil {
		return classify(err, parking.ErrNavigationTimeout, url)
	}
	if err := tp.WaitLoad(); err != nil {
		return classify(err, parking.ErrNavigationTimeout, url)
	}
	return nil
}

func (p *Page) Reload(ctx context.Context, timeout time.Duration) error {
	tp := p.page.Context(ctx).Timeout(timeout)
	defer tp.CancelTimeout()
	if err := tp.Reload(); err != nil {
		return classify(err, parking.ErrNavigationTimeout, "reload")
	}
	if err := tp.WaitLoad(); err != nil {
		return classify(err, parking.ErrNavigationTimeout, "reload")
	}
	return nil
}

// WaitURL polls the page URL until it matches pattern.
func (p *Page) WaitURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	tick := time.NewTicker(urlPollInterval)
	defer tick.Stop()
	for {
		info, err := p.page.Context(ctx).Info()
		if err == nil && pattern.MatchString(info.URL) {
			p.log.Debug("url matched", zap.String("url", info.URL))
			return nil
		}
		select {
		case <-ctx.Done():
			return classify(ctx.Err(), parking.ErrNavigationTimeout, "url matching "+pattern.String())
		case <-tick.C:
		}
	}
}

func (p *Page) WaitFor(ctx context.Context, sel parking.Selector, timeout time.Duration) (parking.Element, error) {
	el, err := p.waitElement(ctx, sel, timeout)
	if err != nil {
		return nil, err
	}
	return &Element{el: el}, nil
}

func (p *Page) Fill(ctx context.Context, sel parking.Selector, value string, timeout time.Duration) error {
	el, err := p.waitElement(ctx, sel, timeout)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select %s: %w", describe(sel), err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s: %w", describe(sel), err)
	}
	return nil
}

func (p *Page) Click(ctx context.Context, sel parking.Selector, timeout time.Duration) error {
	el, err := p.waitElement(ctx, sel, timeout)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", describe(sel), err)
	}
	return nil
}

func (p *Page) Elements(ctx context.Context, sel parking.Selector) ([]parking.Element, error) {
	els, err := p.page.Context(ctx).Elements(sel.CSS)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", describe(sel), err)
	}
	return filterText(els, sel.Text)
}

func (p *Page) Screenshot(ctx context.Context, path string) error {
	img, err := p.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, img, 0o644)
}

// waitElement retries the query until it matches and the element is visible.
// The returned element is bound to ctx, not to the wait deadline.
func (p *Page) waitElement(ctx context.Context, sel parking.Selector, timeout time.Duration) (*rod.Element, error) {
	tp := p.page.Context(ctx).Timeout(timeout)
	defer tp.CancelTimeout()

	var (
		el  *rod.Element
		err error
	)
	if sel.Text == "" {
		el, err = tp.Element(sel.CSS)
	} else {
		el, err = tp.ElementR(sel.CSS, textPattern(sel.Text))
	}
	if err != nil {
		return nil, classify(err, parking.ErrElementNotFound, describe(sel))
	}
	if err := el.WaitVisible(); err != nil {
		return nil, classify(err, parking.ErrElementNotFound, describe(sel))
	}
	return el.Context(ctx), nil
}

// Element adapts a rod element to parking.Element.
type Element struct {
	el *rod.Element
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *Element) Elements(ctx context.Context, sel parking.Selector) ([]parking.Element, error) {
	els, err := e.el.Context(ctx).Elements(sel.CSS)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", describe(sel), err)
	}
	return filterText(els, sel.Text)
}

// WaitFor polls the element's subtree until sel matches or timeout passes.
// Element-scoped queries in rod give up on the first miss, so the retry
// happens here.
func (e *Element) WaitFor(ctx context.Context, sel parking.Selector, timeout time.Duration) (parking.Element, error) {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	tick := time.NewTicker(elementPollInterval)
	defer tick.Stop()
	for {
		var (
			el  *rod.Element
			err error
		)
		scoped := e.el.Context(wctx)
		if sel.Text == "" {
			el, err = scoped.Element(sel.CSS)
		} else {
			el, err = scoped.ElementR(sel.CSS, textPattern(sel.Text))
		}
		if err == nil {
			return &Element{el: el.Context(ctx)}, nil
		}
		if !notFound(err) && !errors.Is(err, context.DeadlineExceeded) {
			return nil, classify(err, parking.ErrElementNotFound, describe(sel))
		}
		select {
		case <-wctx.Done():
			return nil, classify(wctx.Err(), parking.ErrElementNotFound, describe(sel))
		case <-tick.C:
		}
	}
}

// Activate calls the DOM click() of the element, which works for controls
// that are off screen or covered.
func (e *Element) Activate(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => this.click()`)
	return err
}

func filterText(els rod.Elements, text string) ([]parking.Element, error) {
	want := strings.ToLower(text)
	out := make([]parking.Element, 0, len(els))
	for _, el := range els {
		if want != "" {
			t, err := el.Text()
			if err != nil {
				return nil, err
			}
			if !strings.Contains(strings.ToLower(t), want) {
				continue
			}
		}
		out = append(out, &Element{el: el})
	}
	return out, nil
}

// textPattern builds a case-insensitive JS regex matching text literally.
func textPattern(text string) string {
	q := strings.ReplaceAll(regexp.QuoteMeta(text), "/", `\/`)
	return "/" + q + "/i"
}

func describe(sel parking.Selector) string {
	if sel.Text == "" {
		return sel.CSS
	}
	return fmt.Sprintf("%s containing %q", sel.CSS, sel.Text)
}

// classify turns an exceeded deadline into kind and a failed element query
// into parking.ErrElementNotFound; cancellation and other failures pass
// through wrapped.
func classify(err error, kind error, what string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", kind, what)
	case notFound(err):
		return fmt.Errorf("%w: %s", parking.ErrElementNotFound, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func notFound(err error) bool {
	var nf *rod.ElementNotFoundError
	return errors.As(err, &nf)
}
