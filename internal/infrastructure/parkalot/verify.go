package parkalot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"go.uber.org/zap"
)

const (
	noReleaseShot = "after_reserve.png"
	noCardShot    = "bug_my_reservations.png"
)

// Verify opens "My reservations" and confirms the card for dates offers a
// release control, which the site only shows for live reservations. Missing
// cards or controls yield an unconfirmed Verification, not an error.
func (p *Provider) Verify(ctx context.Context, page parking.Page, dates parking.TargetDates) (parking.Verification, error) {
	log := p.logger()
	sel, tm := p.Selectors, p.Timings

	log.Info("opening my reservations")
	if err := page.Click(ctx, sel.MyReservations, tm.Control); err != nil {
		return parking.Verification{}, fmt.Errorf("open my reservations: %w", err)
	}

	if _, err := page.WaitFor(ctx, sel.Card, tm.Cards); err != nil {
		if errors.Is(err, parking.ErrElementNotFound) {
			log.Warn("no reservation cards appeared", zap.Error(err))
			p.capture(ctx, page, noCardShot)
			return parking.Verification{}, nil
		}
		return parking.Verification{}, err
	}

	cards, err := page.Elements(ctx, sel.Card)
	if err != nil {
		return parking.Verification{}, err
	}
	log.Info("reservation cards found", zap.Int("count", len(cards)))

	card, idx, text, err := firstMatching(ctx, cards, dates)
	if err != nil {
		return parking.Verification{}, err
	}
	if card == nil {
		log.Error("no reservation card matches target date", zap.Stringer("targets", dates))
		p.capture(ctx, page, noCardShot)
		return parking.Verification{}, nil
	}
	log.Info("matched reservation card", zap.Int("index", idx), zap.String("text", parking.Compact(text)))

	release, err := card.WaitFor(ctx, sel.ReleaseButton, tm.Release)
	if err != nil {
		if errors.Is(err, parking.ErrElementNotFound) {
			log.Warn("release control did not appear; booking may have silently failed")
			p.capture(ctx, page, noReleaseShot)
			return parking.Verification{}, nil
		}
		return parking.Verification{}, err
	}
	if label, err := release.Text(ctx); err == nil {
		log.Info("release control found", zap.String("label", strings.TrimSpace(label)))
	}

	spot := parking.ExtractSpot(p.spotLabels(ctx, card), text, dates)
	if spot == "" {
		log.Info("no parking spot label found on card")
	}
	return parking.Verification{Confirmed: true, Spot: spot}, nil
}

func (p *Provider) spotLabels(ctx context.Context, card parking.Element) []string {
	els, err := card.Elements(ctx, p.Selectors.SpotLabel)
	if err != nil {
		p.logger().Debug("spot label lookup failed", zap.Error(err))
		return nil
	}
	var out []string
	for _, el := range els {
		if t, err := el.Text(ctx); err == nil {
			out = append(out, t)
		}
	}
	return out
}
