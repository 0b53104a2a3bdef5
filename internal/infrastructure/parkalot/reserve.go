package parkalot

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"go.uber.org/zap"
)

const reserveNotFoundShot = "reserve_not_found.png"

// Reserve shows every calendar day, finds the first card for dates and
// activates its reserve control. Only that first card is considered.
func (p *Provider) Reserve(ctx context.Context, page parking.Page, dates parking.TargetDates) (bool, error) {
	log := p.logger()
	sel, tm := p.Selectors, p.Timings

	log.Info("revealing full calendar")
	if err := page.Click(ctx, sel.AllDays, tm.Control); err != nil {
		return false, fmt.Errorf("show all days: %w", err)
	}
	if err := p.settle(ctx, tm.CalendarSettle); err != nil {
		return false, err
	}

	cards, err := page.Elements(ctx, sel.Card)
	if err != nil {
		return false, err
	}
	log.Info("calendar cards found", zap.Int("count", len(cards)))

	card, idx, text, err := firstMatching(ctx, cards, dates)
	if err != nil {
		return false, err
	}
	if card == nil {
		log.Error("no calendar card matches target date", zap.Stringer("targets", dates))
		p.capture(ctx, page, reserveNotFoundShot)
		return false, nil
	}
	log.Info("matched calendar card", zap.Int("index", idx), zap.String("text", parking.Compact(text)))

	buttons, err := card.Elements(ctx, sel.ActionButton)
	if err != nil {
		return false, err
	}
	for j, b := range buttons {
		label, err := b.Text(ctx)
		if err != nil {
			return false, err
		}
		label = strings.TrimSpace(label)
		log.Debug("card control", zap.Int("button", j), zap.String("label", label))
		if !strings.Contains(strings.ToLower(label), strings.ToLower(sel.ReserveLabel)) {
			continue
		}

		log.Info("activating reserve control", zap.Int("card", idx), zap.Int("button", j))
		if err := b.Activate(ctx); err != nil {
			return false, fmt.Errorf("activate reserve: %w", err)
		}
		if err := p.settle(ctx, tm.ReserveSettle); err != nil {
			return false, err
		}
		return true, nil
	}

	log.Error("matching card has no reserve control",
		zap.Int("card", idx), zap.Int("controls", len(buttons)), zap.Stringer("targets", dates))
	p.capture(ctx, page, reserveNotFoundShot)
	return false, nil
}
