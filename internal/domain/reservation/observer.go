package reservation

import "time"

// EventType names the change an observer is told about.
type EventType string

const (
	EventCancel     EventType = "cancel"
	EventComplete   EventType = "complete"
	EventReschedule EventType = "reschedule"
)

// Event describes a successful change to a reservation.
type Event struct {
	Type       EventType
	From       Status
	To         Status
	OccurredAt time.Time
}

// Observer is notified synchronously after a reservation changes.
// Implementations must be comparable (usually a pointer) so that
// registration can be deduplicated.
type Observer interface {
	ReservationChanged(r *Reservation, e Event)
}

// AddObserver registers o. Registering the same observer twice is a no-op.
func (r *Reservation) AddObserver(o Observer) {
	for _, existing := range r.observers {
		if existing == o {
			return
		}
	}
	r.observers = append(r.observers, o)
}

// RemoveObserver unregisters o. Removing an unknown observer is a no-op.
func (r *Reservation) RemoveObserver(o Observer) {
	for i, existing := range r.observers {
		if existing == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Reservation) notify(e Event) {
	// Copy so an observer may unregister itself while being notified.
	observers := append([]Observer(nil), r.observers...)
	for _, o := range observers {
		o.ReservationChanged(r, e)
	}
}
