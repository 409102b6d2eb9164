// Package period implements the closed-interval arithmetic used by
// reservations and the availability resolver. Both ends of a Period are
// inclusive: two periods that touch on the same instant overlap.
package period

import "time"

// Day is the unit used for day counts and for deriving sub-window edges.
const Day = 24 * time.Hour

// Period is a closed time range [Start, End].
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New returns the period [start, end]. No ordering is enforced.
func New(start, end time.Time) Period {
	return Period{Start: start, End: end}
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] share at least
// one instant. It is false only when one range ends strictly before the
// other starts.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(aEnd.Before(bStart) || aStart.After(bEnd))
}

// Overlaps reports whether p and o share at least one instant.
func (p Period) Overlaps(o Period) bool {
	return Overlaps(p.Start, p.End, o.Start, o.End)
}

// Contains reports whether o lies entirely within p.
func (p Period) Contains(o Period) bool {
	return !p.Start.After(o.Start) && !p.End.Before(o.End)
}

// ContainsInstant reports whether t lies within p.
func (p Period) ContainsInstant(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// IsEmpty reports whether the period starts after it ends.
func (p Period) IsEmpty() bool {
	return p.Start.After(p.End)
}

// Days returns the billable day count of p. See Days.
func (p Period) Days() int {
	return Days(p.Start, p.End)
}

// Days returns the number of whole days between start and end, never less
// than one.
func Days(start, end time.Time) int {
	days := int(end.Sub(start) / Day)
	if days < 1 {
		return 1
	}
	return days
}

// NextDay returns t moved forward by one calendar day.
func NextDay(t time.Time) time.Time { return t.AddDate(0, 0, 1) }

// PrevDay returns t moved back by one calendar day.
func PrevDay(t time.Time) time.Time { return t.AddDate(0, 0, -1) }

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
