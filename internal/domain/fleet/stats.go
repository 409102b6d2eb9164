package fleet

import (
	"github.com/fleetrent/service-reservation/internal/domain/period"
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
	"github.com/fleetrent/service-reservation/internal/domain/vehicle"
)

// utilizationDays is the trailing window utilization is measured over.
const utilizationDays = 365

// KindStats summarizes the vehicles of one kind.
type KindStats struct {
	Count           int     `json:"count"`
	AverageAgeYears float64 `json:"average_age_years"`
}

// Stats summarizes the fleet.
type Stats struct {
	TotalVehicles           int                        `json:"total_vehicles"`
	ByKind                  map[vehicle.Kind]KindStats `json:"by_kind"`
	TotalPurchaseValueCents int64                      `json:"total_purchase_value_cents"`
	ActiveReservations      int                        `json:"active_reservations"`
}

// Stats counts vehicles per kind with their average age, the total purchase
// value and the number of reservations active right now.
func (f *Fleet) Stats() Stats {
	now := f.clock.Now()
	s := Stats{
		TotalVehicles: len(f.vehicles),
		ByKind: map[vehicle.Kind]KindStats{
			vehicle.KindCar:        {},
			vehicle.KindVan:        {},
			vehicle.KindMotorcycle: {},
		},
	}

	ageTotals := make(map[vehicle.Kind]int)
	for _, v := range f.vehicles {
		ks := s.ByKind[v.Kind()]
		ks.Count++
		s.ByKind[v.Kind()] = ks
		ageTotals[v.Kind()] += v.AgeAt(now)
		s.TotalPurchaseValueCents += v.PurchasePriceCents()
	}
	for kind, ks := range s.ByKind {
		if ks.Count > 0 {
			ks.AverageAgeYears = float64(ageTotals[kind]) / float64(ks.Count)
			s.ByKind[kind] = ks
		}
	}

	for _, r := range f.reservations {
		if r.IsActiveAt(now) {
			s.ActiveReservations++
		}
	}
	return s
}

// Utilization returns the share of the trailing 365 days the vehicle spent
// under confirmed or completed reservations, capped at 1. Each reservation
// clipped to the window counts its whole days plus one.
func (f *Fleet) Utilization(vehicleID int64) float64 {
	now := f.clock.Now()
	from := now.Add(-utilizationDays * period.Day)

	booked := 0
	for _, r := range f.ReservationsForVehicle(vehicleID) {
		if r.Status() == reservation.StatusCancelled {
			continue
		}
		start, end := r.Start(), r.End()
		if start.Before(from) {
			start = from
		}
		if end.After(now) {
			end = now
		}
		if !end.Before(start) {
			booked += int(end.Sub(start)/period.Day) + 1
		}
	}

	ratio := float64(booked) / utilizationDays
	if ratio > 1 {
		return 1
	}
	return ratio
}
