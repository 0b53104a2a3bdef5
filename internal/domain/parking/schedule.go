package parking

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock instant within a day.
type TimeOfDay struct {
	Hour, Minute, Second int
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q (want HH:MM:SS)", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// On returns the instant on the calendar day of t, in loc.
func (tod TimeOfDay) On(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), tod.Hour, tod.Minute, tod.Second, 0, loc)
}

func (tod TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", tod.Hour, tod.Minute, tod.Second)
}
