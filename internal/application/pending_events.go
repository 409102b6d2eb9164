package application

import (
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
)

type pendingEvent struct {
	r *reservation.Reservation
	e reservation.Event
}

// pendingEvents is the observer the fleet attaches to every reservation. It
// only buffers: changes happen under the fleet lock, and delivery to the
// notifier waits until the change is persisted and the lock released.
// Access is guarded by FleetService.mu.
type pendingEvents struct {
	events []pendingEvent
}

// ReservationChanged implements reservation.Observer. It keeps a detached
// copy so delivery outside the lock reads the state of that moment.
func (p *pendingEvents) ReservationChanged(r *reservation.Reservation, e reservation.Event) {
	p.events = append(p.events, pendingEvent{r: r.Clone(), e: e})
}

func (p *pendingEvents) take() []pendingEvent {
	events := p.events
	p.events = nil
	return events
}

func (p *pendingEvents) discard() {
	p.events = nil
}
