package services

import "time"

// Clock supplies the current time. Tests pin it.
type Clock func() time.Time

// InZone reads now in loc. The zone decides which calendar date is "today".
func InZone(now Clock, loc *time.Location) Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		return now
	}
	return func() time.Time { return now().In(loc) }
}

// dateOf returns the calendar date of t in its own zone as midnight UTC, the
// form DATE columns are compared and scanned in.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from one date to another.
func daysBetween(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}
