package parking

import (
	"strings"
	"time"
)

// TargetDates holds alternative renderings of one calendar date, e.g.
// "8th June" and "8 June". A text matching any of them refers to that date.
type TargetDates []string

// Matches reports whether text contains any of the renderings, ignoring
// case. An occurrence directly preceded by a digit does not count, so
// "8 June" does not match "18 June".
func (d TargetDates) Matches(text string) bool {
	lower := strings.ToLower(text)
	for _, t := range d {
		if t == "" {
			continue
		}
		t = strings.ToLower(t)
		for from := 0; ; {
			i := strings.Index(lower[from:], t)
			if i < 0 {
				break
			}
			at := from + i
			if at == 0 || !isDigit(lower[at-1]) {
				return true
			}
			from = at + 1
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (d TargetDates) String() string {
	return strings.Join(d, " or ")
}

// Verification is what the confirmation view says about a reservation.
// Spot is empty when no parking-spot label could be extracted.
type Verification struct {
	Confirmed bool
	Spot      string
}

// Outcome is the terminal result of one run. Empty Spot and Error mean absent.
type Outcome struct {
	Attempted bool
	Succeeded bool
	Spot      string
	Error     string
}

// Run is the record kept by an optional RunRecorder.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Targets    TargetDates
	Outcome    Outcome
}
