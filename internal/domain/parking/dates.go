package parking

import (
	"fmt"
	"time"
)

// WeekAhead targets the date one week from now, pushed to Monday when it
// lands on a weekend.
type WeekAhead struct{}

func (WeekAhead) Resolve(now time.Time) TargetDates {
	return DateTexts(NextWeekday(now.AddDate(0, 0, 7)))
}

// FixedDate always targets Date. Used to book a specific day by hand.
type FixedDate struct {
	Date time.Time
}

func (f FixedDate) Resolve(time.Time) TargetDates {
	return DateTexts(f.Date)
}

// NextWeekday returns t unchanged on Monday..Friday, else the following Monday.
func NextWeekday(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

// OrdinalSuffix returns the English ordinal suffix for a day of the month.
func OrdinalSuffix(day int) string {
	if d := day % 100; d >= 11 && d <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// DateTexts renders t as the site shows it, with and without the ordinal:
// ["10th June", "10 June"].
func DateTexts(t time.Time) TargetDates {
	day, month := t.Day(), t.Month().String()
	return TargetDates{
		fmt.Sprintf("%d%s %s", day, OrdinalSuffix(day), month),
		fmt.Sprintf("%d %s", day, month),
	}
}
