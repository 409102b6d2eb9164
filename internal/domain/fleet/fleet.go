// Package fleet holds the vehicle inventory and the reservations placed on
// it, and answers availability questions over both.
//
// A Fleet is not safe for concurrent use. Callers serialize access, which
// also makes the check-then-append in RegisterReservation atomic.
package fleet

import (
	"time"

	"github.com/fleetrent/service-reservation/internal/domain/period"
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
	"github.com/fleetrent/service-reservation/internal/domain/vehicle"
)

// Fleet is the in-memory authority for availability decisions.
type Fleet struct {
	vehicles     []*vehicle.Vehicle
	reservations []*reservation.Reservation
	clock        Clock
}

// New creates an empty fleet. A nil clock uses the system clock.
func New(clock Clock) *Fleet {
	if clock == nil {
		clock = RealClock{}
	}
	return &Fleet{clock: clock}
}

// AddVehicle appends v to the inventory. It returns false when a vehicle
// with the same id is already present.
func (f *Fleet) AddVehicle(v *vehicle.Vehicle) bool {
	if _, exists := f.FindVehicle(v.ID()); exists {
		return false
	}
	f.vehicles = append(f.vehicles, v)
	return true
}

// RemoveVehicle drops a vehicle from the inventory. It returns false when
// the vehicle is unknown or still has active reservations.
func (f *Fleet) RemoveVehicle(id int64) bool {
	idx := f.vehicleIndex(id)
	if idx < 0 || f.HasActiveReservations(id) {
		return false
	}
	f.vehicles = append(f.vehicles[:idx], f.vehicles[idx+1:]...)
	return true
}

// HasActiveReservations reports whether the vehicle has a confirmed
// reservation ending today or later.
func (f *Fleet) HasActiveReservations(vehicleID int64) bool {
	today := period.StartOfDay(f.clock.Now())
	for _, r := range f.reservations {
		if r.VehicleID() == vehicleID &&
			r.Status() == reservation.StatusConfirmed &&
			!r.End().Before(today) {
			return true
		}
	}
	return false
}

// CanRegister reports whether RegisterReservation would accept r.
func (f *Fleet) CanRegister(r *reservation.Reservation) bool {
	if _, exists := f.FindVehicle(r.VehicleID()); !exists {
		return false
	}
	for _, existing := range f.reservations {
		if existing == r || reservation.Conflicts(existing, r) {
			return false
		}
	}
	return true
}

// RegisterReservation stores r. It returns false, leaving the fleet
// unchanged, when the vehicle is not in the inventory or r conflicts with a
// stored reservation. The price is not computed here.
func (f *Fleet) RegisterReservation(r *reservation.Reservation) bool {
	if !f.CanRegister(r) {
		return false
	}
	f.reservations = append(f.reservations, r)
	return true
}

// FindVehicle looks a vehicle up by id.
func (f *Fleet) FindVehicle(id int64) (*vehicle.Vehicle, bool) {
	if idx := f.vehicleIndex(id); idx >= 0 {
		return f.vehicles[idx], true
	}
	return nil, false
}

// FindReservation looks a registered reservation up by id.
func (f *Fleet) FindReservation(id int64) (*reservation.Reservation, bool) {
	for _, r := range f.reservations {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

// Vehicles returns the inventory in insertion order.
func (f *Fleet) Vehicles() []*vehicle.Vehicle {
	return append([]*vehicle.Vehicle(nil), f.vehicles...)
}

// Reservations returns every registered reservation in insertion order.
func (f *Fleet) Reservations() []*reservation.Reservation {
	return append([]*reservation.Reservation(nil), f.reservations...)
}

// ReservationsForVehicle returns the registered reservations of a vehicle.
func (f *Fleet) ReservationsForVehicle(vehicleID int64) []*reservation.Reservation {
	var out []*reservation.Reservation
	for _, r := range f.reservations {
		if r.VehicleID() == vehicleID {
			out = append(out, r)
		}
	}
	return out
}

// FindAvailable returns the vehicles of the given kind that match criteria
// and that the availability resolver reports free over [start, end].
// Results keep inventory order.
func (f *Fleet) FindAvailable(kind vehicle.Kind, criteria Criteria, start, end time.Time) []*vehicle.Vehicle {
	var out []*vehicle.Vehicle
	for _, v := range f.vehicles {
		if v.Kind() != kind || !MatchesCriteria(v, criteria) {
			continue
		}
		if f.IsFree(v.ID(), start, end) {
			out = append(out, v)
		}
	}
	return out
}

// IsVehicleAvailable reports whether no confirmed or completed reservation
// of the vehicle overlaps [start, end], ignoring the reservation excludeID.
// Unlike IsFree, any overlap makes the vehicle unavailable.
func (f *Fleet) IsVehicleAvailable(vehicleID int64, start, end time.Time, excludeID int64) bool {
	if _, exists := f.FindVehicle(vehicleID); !exists {
		return false
	}
	for _, r := range reservation.Excluding(f.ReservationsForVehicle(vehicleID), excludeID) {
		if r.Status() == reservation.StatusCancelled {
			continue
		}
		if period.Overlaps(r.Start(), r.End(), start, end) {
			return false
		}
	}
	return true
}

func (f *Fleet) vehicleIndex(id int64) int {
	for i, v := range f.vehicles {
		if v.ID() == id {
			return i
		}
	}
	return -1
}
