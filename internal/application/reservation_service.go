package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fleetrent/service-reservation/internal/domain"
	clientDomain "github.com/fleetrent/service-reservation/internal/domain/client"
	"github.com/fleetrent/service-reservation/internal/domain/fleet"
	"github.com/fleetrent/service-reservation/internal/domain/period"
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
)

// CreateReservationRequest holds the data needed to reserve a vehicle.
type CreateReservationRequest struct {
	ClientID  int64     `json:"client_id" binding:"required"`
	VehicleID int64     `json:"vehicle_id" binding:"required"`
	Start     time.Time `json:"start" binding:"required"`
	End       time.Time `json:"end" binding:"required"`
}

// RescheduleRequest holds the new range of a reservation.
type RescheduleRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// ReservationDTO is the response representation of a reservation.
type ReservationDTO struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	VehicleID  int64     `json:"vehicle_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Days       int       `json:"days"`
	PriceCents *int64    `json:"price_cents,omitempty"`
	Status     string    `json:"status"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReservationService is the application service orchestrating reservation
// use cases. It shares the fleet, and its lock, with FleetService.
type ReservationService struct {
	fleet    *FleetService
	repo     reservation.Repository
	clients  clientDomain.Repository
	notifier ReservationNotifier
	clock    fleet.Clock
	logger   *zap.Logger
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	fleetService *FleetService,
	repo reservation.Repository,
	clients clientDomain.Repository,
	notifier ReservationNotifier,
	clock fleet.Clock,
	logger *zap.Logger,
) *ReservationService {
	if clock == nil {
		clock = fleet.RealClock{}
	}
	return &ReservationService{
		fleet:    fleetService,
		repo:     repo,
		clients:  clients,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// CreateReservation prices and registers a reservation for an existing
// client on a vehicle of the fleet.
func (s *ReservationService) CreateReservation(ctx context.Context, req CreateReservationRequest) (*ReservationDTO, error) {
	if _, err := s.clients.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}
	if err := s.checkNotInPast(req.Start); err != nil {
		return nil, err
	}

	r, err := reservation.New(req.ClientID, req.VehicleID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	err = s.fleet.withFleet(func(f *fleet.Fleet) error {
		v, ok := f.FindVehicle(req.VehicleID)
		if !ok {
			return domain.NewNotFoundError("Vehicle", strconv.FormatInt(req.VehicleID, 10))
		}
		if !f.CanRegister(r) {
			return domain.NewConflictError(fmt.Sprintf("vehicle %d is already reserved over that period", req.VehicleID))
		}

		r.CalculatePrice(v)
		if err := s.repo.Save(ctx, r); err != nil {
			return fmt.Errorf("failed to save reservation: %w", err)
		}
		if !f.RegisterReservation(r) {
			return domain.NewConflictError(fmt.Sprintf("reservation %d could not be registered", r.ID()))
		}
		s.fleet.track(r)
		return nil
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			s.logger.Info("reservation refused",
				zap.Int64("vehicle_id", req.VehicleID),
				zap.Time("start", req.Start),
				zap.Time("end", req.End),
			)
		}
		return nil, err
	}

	s.notifier.ReservationCreated(ctx, r)
	s.logger.Info("reservation created",
		zap.Int64("reservation_id", r.ID()),
		zap.Int64("vehicle_id", r.VehicleID()),
		zap.Int64("price_cents", *r.PriceCents()),
	)

	result := toReservationDTO(r)
	return &result, nil
}

// GetReservation returns a reservation. Reservations of vehicles no longer in
// the fleet are read from storage.
func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*ReservationDTO, error) {
	var found *reservation.Reservation
	_ = s.fleet.withFleet(func(f *fleet.Fleet) error {
		found, _ = f.FindReservation(id)
		return nil
	})
	if found == nil {
		r, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		found = r
	}
	result := toReservationDTO(found)
	return &result, nil
}

// CancelReservation cancels a confirmed reservation.
func (s *ReservationService) CancelReservation(ctx context.Context, id int64) (*ReservationDTO, error) {
	return s.transition(ctx, id, reservation.StatusCancelled, (*reservation.Reservation).Cancel)
}

// CompleteReservation marks a confirmed reservation as completed.
func (s *ReservationService) CompleteReservation(ctx context.Context, id int64) (*ReservationDTO, error) {
	return s.transition(ctx, id, reservation.StatusCompleted, (*reservation.Reservation).Complete)
}

func (s *ReservationService) transition(
	ctx context.Context,
	id int64,
	target reservation.Status,
	apply func(*reservation.Reservation) bool,
) (*ReservationDTO, error) {
	var result ReservationDTO
	err := s.fleet.withFleet(func(f *fleet.Fleet) error {
		r, ok := f.FindReservation(id)
		if !ok {
			return domain.NewNotFoundError("Reservation", strconv.FormatInt(id, 10))
		}
		from := r.Status()
		snap := r.Snapshot()
		if !apply(r) {
			return domain.NewInvalidStateError(string(from), string(target))
		}

		r.IncrementVersion()
		if err := s.repo.Update(ctx, r); err != nil {
			r.Rollback(snap)
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		result = toReservationDTO(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation status changed",
		zap.Int64("reservation_id", id),
		zap.String("status", result.Status),
	)
	return &result, nil
}

// RescheduleReservation moves a confirmed reservation to a new range. The
// vehicle must be free over the new range, ignoring the reservation itself.
func (s *ReservationService) RescheduleReservation(ctx context.Context, id int64, req RescheduleRequest) (*ReservationDTO, error) {
	if !req.End.After(req.Start) {
		return nil, reservation.ErrInvalidRange
	}
	if err := s.checkNotInPast(req.Start); err != nil {
		return nil, err
	}

	var result ReservationDTO
	err := s.fleet.withFleet(func(f *fleet.Fleet) error {
		r, ok := f.FindReservation(id)
		if !ok {
			return domain.NewNotFoundError("Reservation", strconv.FormatInt(id, 10))
		}
		if r.Status() != reservation.StatusConfirmed {
			return domain.NewInvalidStateError(string(r.Status()), string(reservation.StatusConfirmed))
		}
		v, ok := f.FindVehicle(r.VehicleID())
		if !ok {
			return domain.NewNotFoundError("Vehicle", strconv.FormatInt(r.VehicleID(), 10))
		}
		if !f.IsVehicleAvailable(r.VehicleID(), req.Start, req.End, r.ID()) {
			return domain.NewConflictError(fmt.Sprintf("vehicle %d is not available over the new period", r.VehicleID()))
		}

		snap := r.Snapshot()
		if err := r.ModifyDates(req.Start, req.End, v); err != nil {
			return err
		}
		r.IncrementVersion()
		if err := s.repo.Update(ctx, r); err != nil {
			r.Rollback(snap)
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		result = toReservationDTO(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation rescheduled",
		zap.Int64("reservation_id", id),
		zap.Time("start", req.Start),
		zap.Time("end", req.End),
	)
	return &result, nil
}

func (s *ReservationService) checkNotInPast(start time.Time) error {
	today := period.StartOfDay(s.clock.Now())
	if start.Before(today) {
		return domain.NewValidationError("reservation cannot start in the past")
	}
	return nil
}

func toReservationDTO(r *reservation.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:         r.ID(),
		ClientID:   r.ClientID(),
		VehicleID:  r.VehicleID(),
		Start:      r.Start(),
		End:        r.End(),
		Days:       r.Days(),
		PriceCents: r.PriceCents(),
		Status:     string(r.Status()),
		Version:    r.Version(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
}

func toReservationDTOs(rs []*reservation.Reservation) []ReservationDTO {
	out := make([]ReservationDTO, len(rs))
	for i, r := range rs {
		out[i] = toReservationDTO(r)
	}
	return out
}
