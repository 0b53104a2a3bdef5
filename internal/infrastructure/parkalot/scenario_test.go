package parkalot

import (
	"context"
	"testing"
	"time"

	"github.com/example/parking-scheduler/internal/application/usecases"
	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageSession struct {
	page   *fakePage
	closed bool
}

func (s *pageSession) Page() parking.Page { return s.page }
func (s *pageSession) Close() error {
	s.closed = true
	return nil
}

type pageOpener struct{ session *pageSession }

func (o pageOpener) Open(context.Context) (parking.Session, error) { return o.session, nil }

type openGate struct{}

func (openGate) Wait(context.Context) error { return nil }

type captured struct {
	success, failure []string
}

func (c *captured) SendSuccess(_ parking.TargetDates, spot string) bool {
	c.success = append(c.success, spot)
	return true
}

func (c *captured) SendFailure(_ parking.TargetDates, msg string) bool {
	c.failure = append(c.failure, msg)
	return true
}

// sitePage is the whole site on one fake page: login form, calendar and
// the reservations view behind "MY RESERVATIONS".
func sitePage(calendar, reservations []*fakeElement) *fakePage {
	p := loginPage()
	p.add("button", el("ALL DAYS"), el("MY RESERVATIONS"))
	p.elements[cardCSS] = calendar
	p.onClick["my reservations"] = func(p *fakePage) { p.elements[cardCSS] = reservations }
	return p
}

func runScenario(t *testing.T, page *fakePage) (parking.Run, *captured, *pageSession) {
	t.Helper()
	provider := testProvider()
	session := &pageSession{page: page}
	notes := &captured{}
	uc := usecases.ReserveParking{
		Credentials: func() (parking.Credentials, error) { return creds, nil },
		Dates:       parking.FixedDate{Date: time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)},
		Sessions:    pageOpener{session: session},
		Auth:        provider,
		Gate:        openGate{},
		Reserver:    provider,
		Verifier:    provider,
		Notifier:    notes,
	}
	run, err := uc.Execute(context.Background())
	require.NoError(t, err)
	return run, notes, session
}

func TestScenarioReservedAndVerified(t *testing.T) {
	reserve := el("RESERVE")
	page := sitePage(
		[]*fakeElement{el("Mon 8th June available").with("button", reserve)},
		[]*fakeElement{el("Mon 8th June\nSpot 42 booked").with("button", el("RELEASE"))},
	)

	run, notes, session := runScenario(t, page)

	assert.Equal(t, parking.Outcome{Attempted: true, Succeeded: true, Spot: "42"}, run.Outcome)
	assert.Equal(t, 1, reserve.activated)
	assert.Equal(t, []string{"42"}, notes.success)
	assert.Empty(t, notes.failure)
	assert.True(t, session.closed)
}

func TestScenarioNoCalendarCard(t *testing.T) {
	page := sitePage(
		[]*fakeElement{el("Tue 9th June").with("button", el("RESERVE"))},
		nil,
	)

	run, notes, session := runScenario(t, page)

	assert.False(t, run.Outcome.Succeeded)
	assert.False(t, run.Outcome.Attempted)
	assert.Contains(t, run.Outcome.Error, "RESERVE button")
	require.Len(t, notes.failure, 1)
	assert.Contains(t, notes.failure[0], "RESERVE button")
	assert.Equal(t, []string{"shots/reserve_not_found.png"}, page.screenshots)
	assert.True(t, session.closed)
}
