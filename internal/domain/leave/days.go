package leave

import "time"

const DateLayout = "2006-01-02"

// NormalizeRange orders a picked pair so from never follows to.
func NormalizeRange(from, to time.Time) (time.Time, time.Time) {
	if to.Before(from) {
		return to, from
	}
	return from, to
}

// DayCount counts calendar days in the inclusive range, 0 when to precedes from.
func DayCount(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return 0
	}
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// EachDay calls fn for every calendar day in [from, to], stopping at the first error.
func EachDay(from, to time.Time, fn func(day time.Time) error) error {
	from = truncateDay(from)
	to = truncateDay(to)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
