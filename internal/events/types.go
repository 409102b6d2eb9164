package events

import "time"

// Source is the CloudEvent source of everything this service publishes.
const Source = "service-reservation"

// Topics.
const (
	TopicReservationEvents = "reservation.events"
	TopicVehicleReturns    = "fleet.vehicle-returns"
)

// Event types.
const (
	ReservationCreated     = "reservation.created"
	ReservationCancelled   = "reservation.cancelled"
	ReservationCompleted   = "reservation.completed"
	ReservationRescheduled = "reservation.rescheduled"

	VehicleReturned = "vehicle.returned"
)

// ReservationEvent is the payload of every reservation.* event.
type ReservationEvent struct {
	ReservationID  int64     `json:"reservation_id"`
	ClientID       int64     `json:"client_id"`
	VehicleID      int64     `json:"vehicle_id"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	PriceCents     *int64    `json:"price_cents,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// VehicleReturnedEvent is published by the depot when a rented vehicle is
// handed back.
type VehicleReturnedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	VehicleID     int64     `json:"vehicle_id"`
	ReturnedAt    time.Time `json:"returned_at"`
}
