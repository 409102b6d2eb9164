package fleet

import (
	"sort"
	"time"

	"github.com/fleetrent/service-reservation/internal/domain/period"
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
)

// IsFree runs the availability resolver for a vehicle over [start, end].
//
// The first confirmed reservation overlapping a window decides what happens
// to it: a reservation covering the whole window blocks it, one strictly
// inside splits it in two, one overlapping an edge trims that edge. Sub-window
// edges move by one day past the reservation. The window is free when every
// remaining sub-window is. An empty window (start after end) is free.
//
// Reservations are scanned by start then id, so the answer does not depend on
// the order they were registered in. Sub-windows are kept on an explicit
// stack rather than recursed into.
func (f *Fleet) IsFree(vehicleID int64, start, end time.Time) bool {
	blocking := f.confirmedByStart(vehicleID)
	stack := []period.Period{period.New(start, end)}

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w.IsEmpty() {
			continue
		}

		r := firstOverlapping(blocking, w)
		if r == nil {
			continue
		}
		rStart, rEnd := r.Start(), r.End()
		coversStart := !rStart.After(w.Start)
		coversEnd := !rEnd.Before(w.End)

		switch {
		case coversStart && coversEnd:
			return false
		case !coversStart && !coversEnd:
			stack = append(stack,
				period.New(w.Start, period.PrevDay(rStart)),
				period.New(period.NextDay(rEnd), w.End),
			)
		case coversStart:
			stack = append(stack, period.New(period.NextDay(rEnd), w.End))
		default:
			stack = append(stack, period.New(w.Start, period.PrevDay(rStart)))
		}
	}
	return true
}

// FreePeriods returns the maximal sub-windows of [start, end] that no
// confirmed reservation of the vehicle touches, in chronological order.
func (f *Fleet) FreePeriods(vehicleID int64, start, end time.Time) []period.Period {
	window := period.New(start, end)
	if window.IsEmpty() {
		return nil
	}

	var free []period.Period
	cursor := start
	for _, r := range f.confirmedByStart(vehicleID) {
		if !window.Overlaps(r.Period()) {
			continue
		}
		if gapEnd := period.PrevDay(r.Start()); !cursor.After(gapEnd) {
			free = append(free, period.New(cursor, gapEnd))
		}
		if next := period.NextDay(r.End()); next.After(cursor) {
			cursor = next
		}
		if cursor.After(end) {
			return free
		}
	}
	return append(free, period.New(cursor, end))
}

func (f *Fleet) confirmedByStart(vehicleID int64) []*reservation.Reservation {
	var out []*reservation.Reservation
	for _, r := range f.reservations {
		if r.VehicleID() == vehicleID && r.Status() == reservation.StatusConfirmed {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start().Equal(out[j].Start()) {
			return out[i].Start().Before(out[j].Start())
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

func firstOverlapping(rs []*reservation.Reservation, w period.Period) *reservation.Reservation {
	for _, r := range rs {
		if period.Overlaps(r.Start(), r.End(), w.Start, w.End) {
			return r
		}
	}
	return nil
}
