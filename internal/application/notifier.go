package application

import (
	"context"

	"github.com/fleetrent/service-reservation/internal/domain/reservation"
)

// ReservationNotifier publishes reservation lifecycle events. It observes
// every reservation the services manage; creation is announced explicitly.
type ReservationNotifier interface {
	reservation.Observer
	ReservationCreated(ctx context.Context, r *reservation.Reservation)
}
