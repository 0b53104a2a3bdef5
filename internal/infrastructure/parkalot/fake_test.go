package parkalot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
)

type fakeElement struct {
	text      string
	children  map[string][]*fakeElement
	activated int
}

func el(text string) *fakeElement {
	return &fakeElement{text: text, children: map[string][]*fakeElement{}}
}

func (e *fakeElement) with(css string, kids ...*fakeElement) *fakeElement {
	e.children[css] = append(e.children[css], kids...)
	return e
}

func (e *fakeElement) Text(context.Context) (string, error) { return e.text, nil }

func (e *fakeElement) Elements(_ context.Context, sel parking.Selector) ([]parking.Element, error) {
	return filter(e.children[sel.CSS], sel.Text), nil
}

func (e *fakeElement) WaitFor(_ context.Context, sel parking.Selector, _ time.Duration) (parking.Element, error) {
	found := filter(e.children[sel.CSS], sel.Text)
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", parking.ErrElementNotFound, sel.CSS)
	}
	return found[0], nil
}

func (e *fakeElement) Activate(context.Context) error {
	e.activated++
	return nil
}

func filter(els []*fakeElement, text string) []parking.Element {
	var out []parking.Element
	for _, e := range els {
		if text == "" || strings.Contains(strings.ToLower(e.text), strings.ToLower(text)) {
			out = append(out, e)
		}
	}
	return out
}

type fakePage struct {
	url         string
	elements    map[string][]*fakeElement
	onClick     map[string]func(p *fakePage)
	navigated   []string
	fills       map[string]string
	clicks      []string
	screenshots []string
}

func newFakePage() *fakePage {
	return &fakePage{
		elements: map[string][]*fakeElement{},
		onClick:  map[string]func(p *fakePage){},
		fills:    map[string]string{},
	}
}

func (p *fakePage) add(css string, els ...*fakeElement) *fakePage {
	p.elements[css] = append(p.elements[css], els...)
	return p
}

func (p *fakePage) Navigate(_ context.Context, url string, _ time.Duration) error {
	p.navigated = append(p.navigated, url)
	p.url = url
	return nil
}

func (p *fakePage) Reload(context.Context, time.Duration) error { return nil }

func (p *fakePage) WaitURL(_ context.Context, pattern *regexp.Regexp, _ time.Duration) error {
	if pattern.MatchString(p.url) {
		return nil
	}
	return fmt.Errorf("%w: url matching %s", parking.ErrNavigationTimeout, pattern)
}

func (p *fakePage) WaitFor(_ context.Context, sel parking.Selector, _ time.Duration) (parking.Element, error) {
	found := filter(p.elements[sel.CSS], sel.Text)
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s %q", parking.ErrElementNotFound, sel.CSS, sel.Text)
	}
	return found[0], nil
}

func (p *fakePage) Fill(ctx context.Context, sel parking.Selector, value string, timeout time.Duration) error {
	if _, err := p.WaitFor(ctx, sel, timeout); err != nil {
		return err
	}
	p.fills[sel.CSS] = value
	return nil
}

func (p *fakePage) Click(ctx context.Context, sel parking.Selector, timeout time.Duration) error {
	if _, err := p.WaitFor(ctx, sel, timeout); err != nil {
		return err
	}
	p.clicks = append(p.clicks, sel.Text)
	if fn := p.onClick[strings.ToLower(sel.Text)]; fn != nil {
		fn(p)
	}
	return nil
}

func (p *fakePage) Elements(_ context.Context, sel parking.Selector) ([]parking.Element, error) {
	return filter(p.elements[sel.CSS], sel.Text), nil
}

func (p *fakePage) Screenshot(_ context.Context, path string) error {
	p.screenshots = append(p.screenshots, path)
	return nil
}

func testProvider() *Provider {
	p := New("https://parking.test", nil)
	p.ScreenshotDir = "shots"
	p.Sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

const cardCSS = `div[class*="box-color"]`
