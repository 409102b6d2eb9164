package events

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fleetrent/service-reservation/internal/domain/reservation"
)

// observerPublishTimeout bounds a publish triggered by a lifecycle change,
// which carries no context of its own.
const observerPublishTimeout = 5 * time.Second

// EventWriter is the part of Producer the publisher needs.
type EventWriter interface {
	PublishEvent(ctx context.Context, topic string, ce CloudEvent) error
}

// ReservationPublisher turns reservation lifecycle changes into CloudEvents.
// It is registered as an observer on every reservation the service manages.
type ReservationPublisher struct {
	writer EventWriter
	topic  string
	logger *zap.Logger
}

// NewReservationPublisher creates a publisher writing to topic.
func NewReservationPublisher(writer EventWriter, topic string, logger *zap.Logger) *ReservationPublisher {
	return &ReservationPublisher{writer: writer, topic: topic, logger: logger}
}

// ReservationCreated publishes reservation.created.
func (p *ReservationPublisher) ReservationCreated(ctx context.Context, r *reservation.Reservation) {
	p.publish(ctx, ReservationCreated, r, "")
}

// ReservationChanged implements reservation.Observer.
func (p *ReservationPublisher) ReservationChanged(r *reservation.Reservation, e reservation.Event) {
	var eventType string
	switch e.Type {
	case reservation.EventCancel:
		eventType = ReservationCancelled
	case reservation.EventComplete:
		eventType = ReservationCompleted
	case reservation.EventReschedule:
		eventType = ReservationRescheduled
	default:
		p.logger.Warn("ignoring unknown reservation event", zap.String("type", string(e.Type)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), observerPublishTimeout)
	defer cancel()
	p.publish(ctx, eventType, r, string(e.From))
}

// publish logs failures instead of returning them: the state change has
// already happened.
func (p *ReservationPublisher) publish(ctx context.Context, eventType string, r *reservation.Reservation, previous string) {
	data := ReservationEvent{
		ReservationID:  r.ID(),
		ClientID:       r.ClientID(),
		VehicleID:      r.VehicleID(),
		Start:          r.Start(),
		End:            r.End(),
		PriceCents:     r.PriceCents(),
		Status:         string(r.Status()),
		PreviousStatus: previous,
		OccurredAt:     time.Now().UTC(),
	}

	ce, err := NewCloudEvent(Source, eventType, strconv.FormatInt(r.ID(), 10), data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.writer.PublishEvent(ctx, p.topic, ce); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", p.topic),
			zap.String("event_type", eventType),
			zap.Int64("reservation_id", r.ID()),
			zap.Error(err),
		)
	}
}
