package parking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func TestOrdinalSuffix(t *testing.T) {
	cases := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th",
		11: "th", 12: "th", 13: "th",
		21: "st", 22: "nd", 23: "rd", 24: "th",
		30: "th", 31: "st",
	}
	for d, want := range cases {
		assert.Equal(t, want, OrdinalSuffix(d), "day %d", d)
	}
}

func TestWeekAheadNeverLandsOnWeekend(t *testing.T) {
	start := day(2026, time.January, 1)
	for i := 0; i < 400; i++ {
		now := start.AddDate(0, 0, i)
		got := NextWeekday(now.AddDate(0, 0, 7))
		require.NotEqual(t, time.Saturday, got.Weekday(), "from %s", now.Format("2006-01-02"))
		require.NotEqual(t, time.Sunday, got.Weekday(), "from %s", now.Format("2006-01-02"))
	}
}

func TestWeekAheadResolve(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want TargetDates
	}{
		{"weekday stays on same weekday", day(2026, time.June, 1), TargetDates{"8th June", "8 June"}},
		{"friday stays friday", day(2026, time.June, 12), TargetDates{"19th June", "19 June"}},
		{"saturday skips two days", day(2026, time.August, 1), TargetDates{"10th August", "10 August"}},
		{"sunday skips one day", day(2026, time.May, 31), TargetDates{"8th June", "8 June"}},
		{"crosses month", day(2026, time.October, 31), TargetDates{"9th November", "9 November"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekAhead{}.Resolve(tt.now))
		})
	}
}

func TestFixedDateIgnoresNow(t *testing.T) {
	r := FixedDate{Date: day(2026, time.March, 23)}
	assert.Equal(t, TargetDates{"23rd March", "23 March"}, r.Resolve(day(2030, time.January, 1)))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("11:00:01")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 11, Minute: 0, Second: 1}, tod)

	tod, err = ParseTimeOfDay(" 19:55 ")
	require.NoError(t, err)
	assert.Equal(t, "19:55:00", tod.String())

	_, err = ParseTimeOfDay("25:00:00")
	assert.Error(t, err)
}
