// Package reservation holds the Reservation aggregate: a client's claim on a
// vehicle over a closed time range, with its pricing and lifecycle.
package reservation

import (
	"fmt"
	"time"

	"github.com/fleetrent/service-reservation/internal/domain"
	"github.com/fleetrent/service-reservation/internal/domain/period"
)

// Reservation is the aggregate root for a vehicle rental.
type Reservation struct {
	id         int64
	clientID   int64
	vehicleID  int64
	start      time.Time
	end        time.Time
	priceCents *int64
	status     Status

	observers []Observer

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// New creates a confirmed reservation with no id and no price.
func New(clientID, vehicleID int64, start, end time.Time) (*Reservation, error) {
	if clientID <= 0 {
		return nil, domain.NewValidationError("client ID is required")
	}
	if vehicleID <= 0 {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	now := time.Now().UTC()
	return &Reservation{
		clientID:  clientID,
		vehicleID: vehicleID,
		start:     start,
		end:       end,
		status:    StatusConfirmed,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Restore rebuilds a Reservation from stored data. The range and the status
// are still checked, since both come from outside the aggregate.
func Restore(
	id, clientID, vehicleID int64,
	start, end time.Time,
	priceCents *int64,
	status string,
	version int64,
	createdAt, updatedAt time.Time,
) (*Reservation, error) {
	if !end.After(start) {
		return nil, ErrInvalidRange
	}
	st := StatusConfirmed
	if status != "" {
		var err error
		if st, err = ParseStatus(status); err != nil {
			return nil, err
		}
	}
	return &Reservation{
		id:         id,
		clientID:   clientID,
		vehicleID:  vehicleID,
		start:      start,
		end:        end,
		priceCents: priceCents,
		status:     st,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

// --- Getters ---

// ID returns the reservation id, zero until persisted.
func (r *Reservation) ID() int64 { return r.id }

// ClientID returns the id of the renting client.
func (r *Reservation) ClientID() int64 { return r.clientID }

// VehicleID returns the id of the reserved vehicle.
func (r *Reservation) VehicleID() int64 { return r.vehicleID }

func (r *Reservation) Start() time.Time { return r.start }
func (r *Reservation) End() time.Time   { return r.end }
func (r *Reservation) Status() Status   { return r.status }

// PriceCents returns the computed price, or nil before CalculatePrice.
func (r *Reservation) PriceCents() *int64 { return r.priceCents }

// Period returns the reserved range.
func (r *Reservation) Period() period.Period { return period.New(r.start, r.end) }

// Days returns the billable day count.
func (r *Reservation) Days() int { return period.Days(r.start, r.end) }

// Version returns the entity version for optimistic locking.
func (r *Reservation) Version() int64 { return r.version }

func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

// --- Behavior ---

// AssignID sets the identity handed out by persistence.
func (r *Reservation) AssignID(id int64) error {
	if r.id != 0 {
		return domain.NewValidationError(fmt.Sprintf("reservation already has id %d", r.id))
	}
	if id <= 0 {
		return domain.NewValidationError("reservation id must be positive")
	}
	r.id = id
	return nil
}

// CalculatePrice prices the reservation at the vehicle's day rate with the
// duration discount, stores the result and returns it.
func (r *Reservation) CalculatePrice(rates RateSource) int64 {
	price := PriceCents(rates.DailyRateCents(), r.Days())
	r.priceCents = &price
	r.updatedAt = time.Now().UTC()
	return price
}

// Cancel moves a confirmed reservation to cancelled. It returns false and
// changes nothing from any other status.
func (r *Reservation) Cancel() bool {
	return r.transition(StatusCancelled, EventCancel)
}

// Complete moves a confirmed reservation to completed. It returns false and
// changes nothing from any other status.
func (r *Reservation) Complete() bool {
	return r.transition(StatusCompleted, EventComplete)
}

func (r *Reservation) transition(to Status, eventType EventType) bool {
	if !r.status.CanTransitionTo(to) {
		return false
	}
	from := r.status
	r.status = to
	r.updatedAt = time.Now().UTC()
	r.notify(Event{Type: eventType, From: from, To: to, OccurredAt: r.updatedAt})
	return true
}

// IsActiveAt reports whether the reservation is confirmed and t falls within
// its range.
func (r *Reservation) IsActiveAt(t time.Time) bool {
	return r.status == StatusConfirmed && r.Period().ContainsInstant(t)
}

// ConflictsWith reports whether r and other block each other. See Conflicts.
func (r *Reservation) ConflictsWith(other *Reservation) bool {
	return Conflicts(r, other)
}

// ModifyDates moves a confirmed reservation to a new range. The price is
// recomputed from rates when the day count changes or no price was set yet.
// Observers are told with an EventReschedule.
func (r *Reservation) ModifyDates(start, end time.Time, rates RateSource) error {
	if !end.After(start) {
		return ErrInvalidRange
	}
	if r.status != StatusConfirmed {
		return domain.NewInvalidStateError(string(r.status), string(StatusConfirmed))
	}

	oldDays := r.Days()
	r.start = start
	r.end = end
	if rates != nil && (r.priceCents == nil || r.Days() != oldDays) {
		r.CalculatePrice(rates)
	}
	r.updatedAt = time.Now().UTC()
	r.notify(Event{Type: EventReschedule, From: r.status, To: r.status, OccurredAt: r.updatedAt})
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Reservation) IncrementVersion() {
	r.version++
}

// Conflicts reports whether two reservations block each other: same vehicle,
// both confirmed, overlapping ranges (boundaries inclusive).
func Conflicts(a, b *Reservation) bool {
	if a.vehicleID != b.vehicleID {
		return false
	}
	if a.status != StatusConfirmed || b.status != StatusConfirmed {
		return false
	}
	return period.Overlaps(a.start, a.end, b.start, b.end)
}

// Excluding returns rs without the reservation whose id is excludeID.
// An excludeID of zero excludes nothing.
func Excluding(rs []*Reservation, excludeID int64) []*Reservation {
	out := make([]*Reservation, 0, len(rs))
	for _, r := range rs {
		if excludeID != 0 && r.id == excludeID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Snapshot is the mutable state of a reservation at one point in time.
type Snapshot struct {
	start      time.Time
	end        time.Time
	priceCents *int64
	status     Status
	version    int64
	updatedAt  time.Time
}

// Snapshot captures the current state so a failed persist can be undone.
func (r *Reservation) Snapshot() Snapshot {
	return Snapshot{
		start:      r.start,
		end:        r.end,
		priceCents: copyPrice(r.priceCents),
		status:     r.status,
		version:    r.version,
		updatedAt:  r.updatedAt,
	}
}

// Rollback puts back the state captured by s. Observers are not told.
func (r *Reservation) Rollback(s Snapshot) {
	r.start = s.start
	r.end = s.end
	r.priceCents = copyPrice(s.priceCents)
	r.status = s.status
	r.version = s.version
	r.updatedAt = s.updatedAt
}

// Clone returns a detached copy with no observers.
func (r *Reservation) Clone() *Reservation {
	c := *r
	c.priceCents = copyPrice(r.priceCents)
	c.observers = nil
	return &c
}

func copyPrice(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
