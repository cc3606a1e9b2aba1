package usccb

import (
	"iter"
	"time"

	"github.com/pevans/lectio/mass"
)

// Day is the smallest useful step for a mass-date sequence.
const Day = 24 * time.Hour

// defaultTimezone is the zone the source site publishes against.
const defaultTimezone = "America/New_York"

// Today returns the current civil date in the source site's timezone,
// normalized to midnight UTC.
func Today() time.Time {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return mass.NormalizeDate(time.Now().In(loc))
}

// MaxQueryDate returns the latest date the source site publishes readings
// for: the first of the month roughly thirteen months out.
func MaxQueryDate() time.Time {
	today := Today()
	next := time.Date(today.Year()+1, today.Month(), 1, 0, 0, 0, 0, time.UTC)
	next = next.AddDate(0, 0, 31)
	return time.Date(next.Year(), next.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MassDates returns a lazy, restartable sequence of dates from the earlier
// of start/end to the later, advancing by step. Bounds passed in reverse
// order are normalized rather than rejected; both bounds are inclusive.
// An InvalidRangeError is returned when step is not positive. The sequence
// is a pure function of its inputs and performs no fetching.
func MassDates(start, end time.Time, step time.Duration) (iter.Seq[time.Time], error) {
	if step <= 0 {
		return nil, &InvalidRangeError{Start: start, End: end, Step: step}
	}

	first := mass.NormalizeDate(start)
	last := mass.NormalizeDate(end)
	if first.After(last) {
		first, last = last, first
	}

	return func(yield func(time.Time) bool) {
		for d := first; !d.After(last); d = d.Add(step) {
			if !yield(d) {
				return
			}
		}
	}, nil
}

// SundayMassDates returns the Sundays within the normalized range, starting
// at the first Sunday on or after the earlier bound and ending at the last
// Sunday on or before the later bound.
func SundayMassDates(start, end time.Time) (iter.Seq[time.Time], error) {
	first := mass.NormalizeDate(start)
	last := mass.NormalizeDate(end)
	if first.After(last) {
		first, last = last, first
	}

	daysUntilSunday := (7 - int(first.Weekday())) % 7
	first = first.AddDate(0, 0, daysUntilSunday)
	if first.After(last) {
		// No Sunday in the range; yield nothing.
		return func(yield func(time.Time) bool) {}, nil
	}

	return MassDates(first, last, 7*Day)
}
