package reservation

import "context"

// Repository defines the persistence contract for reservations.
type Repository interface {
	// FindByID retrieves a reservation by its identifier.
	FindByID(ctx context.Context, id int64) (*Reservation, error)

	// FindByVehicleID retrieves every reservation of a vehicle, oldest start first.
	FindByVehicleID(ctx context.Context, vehicleID int64) ([]*Reservation, error)

	// FindByClientID retrieves every reservation made by a client, oldest start first.
	FindByClientID(ctx context.Context, clientID int64) ([]*Reservation, error)

	// FindAll retrieves every reservation.
	FindAll(ctx context.Context) ([]*Reservation, error)

	// Save persists a new reservation and assigns its id.
	Save(ctx context.Context, r *Reservation) error

	// Update persists changes to an existing reservation with optimistic locking.
	Update(ctx context.Context, r *Reservation) error
}
