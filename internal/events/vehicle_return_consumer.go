package events

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fleetrent/service-reservation/internal/application"
	"github.com/fleetrent/service-reservation/internal/domain"
)

// ReservationCompleter completes a reservation by id.
type ReservationCompleter interface {
	CompleteReservation(ctx context.Context, id int64) (*application.ReservationDTO, error)
}

// VehicleReturnConsumer listens for vehicle returns and completes the
// matching reservation.
type VehicleReturnConsumer struct {
	consumer *Consumer
	service  ReservationCompleter
	logger   *zap.Logger
}

// NewVehicleReturnConsumer creates a new VehicleReturnConsumer.
func NewVehicleReturnConsumer(
	brokers []string,
	groupID string,
	topic string,
	service ReservationCompleter,
	logger *zap.Logger,
) *VehicleReturnConsumer {
	return &VehicleReturnConsumer{
		consumer: NewConsumer(brokers, groupID, topic, logger),
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming vehicle returns. This blocks until the context is cancelled.
func (c *VehicleReturnConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *VehicleReturnConsumer) Close() error {
	return c.consumer.Close()
}

func (c *VehicleReturnConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from vehicle return topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch ce.Type {
	case VehicleReturned:
		return c.handleVehicleReturned(ctx, ce)
	default:
		c.logger.Debug("ignoring unhandled fleet event type", zap.String("type", ce.Type))
		return nil
	}
}

func (c *VehicleReturnConsumer) handleVehicleReturned(ctx context.Context, ce CloudEvent) error {
	var evt VehicleReturnedEvent
	if err := ce.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse VehicleReturnedEvent data", zap.Error(err))
		return nil
	}

	c.logger.Info("processing vehicle return",
		zap.Int64("reservation_id", evt.ReservationID),
		zap.Int64("vehicle_id", evt.VehicleID),
	)

	if _, err := c.service.CompleteReservation(ctx, evt.ReservationID); err != nil {
		// Unknown reservations and already closed ones will never succeed.
		var notFound *domain.NotFoundError
		var badState *domain.InvalidStateError
		if errors.As(err, &notFound) || errors.As(err, &badState) {
			c.logger.Warn("vehicle return does not match a confirmed reservation",
				zap.Int64("reservation_id", evt.ReservationID),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to complete reservation after vehicle return",
			zap.Int64("reservation_id", evt.ReservationID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("reservation completed after vehicle return",
		zap.Int64("reservation_id", evt.ReservationID),
	)
	return nil
}
