package application

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fleetrent/service-reservation/internal/domain"
	"github.com/fleetrent/service-reservation/internal/domain/fleet"
	"github.com/fleetrent/service-reservation/internal/domain/period"
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
	vehicleDomain "github.com/fleetrent/service-reservation/internal/domain/vehicle"
)

// CreateVehicleRequest holds the data needed to add a vehicle. Exactly the
// payload matching Kind is read.
type CreateVehicleRequest struct {
	Kind                   string                        `json:"kind" binding:"required"`
	Brand                  string                        `json:"brand" binding:"required"`
	Model                  string                        `json:"model" binding:"required"`
	Year                   int                           `json:"year" binding:"required"`
	MileageKm              int                           `json:"mileage_km"`
	PurchasePriceCents     int64                         `json:"purchase_price_cents"`
	AnnualMaintenanceCents int64                         `json:"annual_maintenance_cents"`
	Car                    *vehicleDomain.CarSpec        `json:"car,omitempty"`
	Van                    *vehicleDomain.VanSpec        `json:"van,omitempty"`
	Motorcycle             *vehicleDomain.MotorcycleSpec `json:"motorcycle,omitempty"`
}

// SearchRequest asks for vehicles of a kind, matching criteria, free over a window.
type SearchRequest struct {
	Kind     string         `json:"kind" binding:"required"`
	Criteria map[string]any `json:"criteria"`
	Start    time.Time      `json:"start" binding:"required"`
	End      time.Time      `json:"end" binding:"required"`
}

// VehicleDTO is the response representation of a vehicle.
type VehicleDTO struct {
	ID                     int64                         `json:"id"`
	Kind                   string                        `json:"kind"`
	Category               string                        `json:"category"`
	Brand                  string                        `json:"brand"`
	Model                  string                        `json:"model"`
	Year                   int                           `json:"year"`
	MileageKm              int                           `json:"mileage_km"`
	PurchasePriceCents     int64                         `json:"purchase_price_cents"`
	AnnualMaintenanceCents int64                         `json:"annual_maintenance_cents"`
	DailyRateCents         int64                         `json:"daily_rate_cents"`
	Car                    *vehicleDomain.CarSpec        `json:"car,omitempty"`
	Van                    *vehicleDomain.VanSpec        `json:"van,omitempty"`
	Motorcycle             *vehicleDomain.MotorcycleSpec `json:"motorcycle,omitempty"`
	CreatedAt              time.Time                     `json:"created_at"`
}

// FleetStatsDTO is the response representation of fleet statistics.
type FleetStatsDTO struct {
	fleet.Stats
	Utilization map[int64]float64 `json:"utilization"`
}

// FleetService owns the in-memory Fleet. Every read or write of the fleet
// goes through mu, so registration's conflict check and append are atomic.
type FleetService struct {
	mu       sync.Mutex
	fleet    *fleet.Fleet
	vehicles vehicleDomain.Repository
	repo     reservation.Repository
	notifier ReservationNotifier
	pending  *pendingEvents
	logger   *zap.Logger
}

// NewFleetService creates a new FleetService with an empty fleet. Call Load
// to fill it from storage.
func NewFleetService(
	vehicles vehicleDomain.Repository,
	repo reservation.Repository,
	notifier ReservationNotifier,
	clock fleet.Clock,
	logger *zap.Logger,
) *FleetService {
	return &FleetService{
		fleet:    fleet.New(clock),
		vehicles: vehicles,
		repo:     repo,
		notifier: notifier,
		pending:  &pendingEvents{},
		logger:   logger,
	}
}

// Load fills the fleet with every stored vehicle and reservation.
// Reservations of vehicles no longer in the fleet are skipped.
func (s *FleetService) Load(ctx context.Context) error {
	vehicles, err := s.vehicles.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vehicles: %w", err)
	}
	reservations, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reservations: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range vehicles {
		if !s.fleet.AddVehicle(v) {
			s.logger.Warn("duplicate vehicle in storage", zap.Int64("vehicle_id", v.ID()))
		}
	}
	skipped := 0
	for _, r := range reservations {
		if !s.fleet.RegisterReservation(r) {
			skipped++
			s.logger.Debug("reservation not registered in fleet",
				zap.Int64("reservation_id", r.ID()),
				zap.Int64("vehicle_id", r.VehicleID()),
			)
			continue
		}
		r.AddObserver(s.pending)
	}

	s.logger.Info("fleet loaded",
		zap.Int("vehicles", len(vehicles)),
		zap.Int("reservations", len(reservations)-skipped),
		zap.Int("skipped", skipped),
	)
	return nil
}

// AddVehicle validates and stores a new vehicle, then adds it to the fleet.
func (s *FleetService) AddVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleDTO, error) {
	v, err := buildVehicle(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.vehicles.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save vehicle: %w", err)
	}
	if !s.fleet.AddVehicle(v) {
		return nil, domain.NewConflictError(fmt.Sprintf("vehicle %d is already in the fleet", v.ID()))
	}

	s.logger.Info("vehicle added",
		zap.Int64("vehicle_id", v.ID()),
		zap.String("kind", string(v.Kind())),
	)
	result := toVehicleDTO(v)
	return &result, nil
}

// GetVehicle returns a vehicle of the fleet.
func (s *FleetService) GetVehicle(ctx context.Context, id int64) (*VehicleDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.fleet.FindVehicle(id)
	if !ok {
		return nil, domain.NewNotFoundError("Vehicle", strconv.FormatInt(id, 10))
	}
	result := toVehicleDTO(v)
	return &result, nil
}

// ListVehicles returns the fleet in insertion order.
func (s *FleetService) ListVehicles(ctx context.Context) []VehicleDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toVehicleDTOs(s.fleet.Vehicles())
}

// RemoveVehicle deletes a vehicle that has no active reservation.
func (s *FleetService) RemoveVehicle(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.fleet.FindVehicle(id); !ok {
		return domain.NewNotFoundError("Vehicle", strconv.FormatInt(id, 10))
	}
	if s.fleet.HasActiveReservations(id) {
		s.logger.Info("vehicle removal refused: active reservations", zap.Int64("vehicle_id", id))
		return domain.NewConflictError(fmt.Sprintf("vehicle %d has active reservations", id))
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	s.fleet.RemoveVehicle(id)

	s.logger.Info("vehicle removed", zap.Int64("vehicle_id", id))
	return nil
}

// Search returns the vehicles of a kind matching the criteria that the
// availability resolver reports free over the window.
func (s *FleetService) Search(ctx context.Context, req SearchRequest) ([]VehicleDTO, error) {
	kind, err := vehicleDomain.ParseKind(req.Kind)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if req.End.Before(req.Start) {
		return nil, reservation.ErrInvalidRange
	}
	criteria, err := fleet.CriteriaFromMap(req.Criteria)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return toVehicleDTOs(s.fleet.FindAvailable(kind, criteria, req.Start, req.End)), nil
}

// FreePeriods returns the free sub-windows of a vehicle over [start, end].
func (s *FleetService) FreePeriods(ctx context.Context, vehicleID int64, start, end time.Time) ([]period.Period, error) {
	if end.Before(start) {
		return nil, reservation.ErrInvalidRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.fleet.FindVehicle(vehicleID); !ok {
		return nil, domain.NewNotFoundError("Vehicle", strconv.FormatInt(vehicleID, 10))
	}
	periods := s.fleet.FreePeriods(vehicleID, start, end)
	if periods == nil {
		periods = []period.Period{}
	}
	return periods, nil
}

// Stats returns fleet statistics and the utilization of every vehicle.
func (s *FleetService) Stats(ctx context.Context) *FleetStatsDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &FleetStatsDTO{
		Stats:       s.fleet.Stats(),
		Utilization: make(map[int64]float64),
	}
	for _, v := range s.fleet.Vehicles() {
		result.Utilization[v.ID()] = s.fleet.Utilization(v.ID())
	}
	return result
}

// withFleet runs fn while holding the fleet lock. Lifecycle events raised
// by fn are delivered to the notifier once the lock is released, and only
// when fn succeeds: on error fn is expected to have rolled its changes back.
func (s *FleetService) withFleet(fn func(f *fleet.Fleet) error) error {
	s.mu.Lock()
	s.pending.discard()
	err := fn(s.fleet)
	var events []pendingEvent
	if err == nil {
		events = s.pending.take()
	} else {
		s.pending.discard()
	}
	s.mu.Unlock()

	for _, pe := range events {
		s.notifier.ReservationChanged(pe.r, pe.e)
	}
	return err
}

// track attaches the fleet's event buffer to r. Call with the lock held.
func (s *FleetService) track(r *reservation.Reservation) {
	r.AddObserver(s.pending)
}

func buildVehicle(req CreateVehicleRequest) (*vehicleDomain.Vehicle, error) {
	kind, err := vehicleDomain.ParseKind(req.Kind)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	details := vehicleDomain.Details{
		Brand:                  req.Brand,
		Model:                  req.Model,
		Year:                   req.Year,
		MileageKm:              req.MileageKm,
		PurchasePriceCents:     req.PurchasePriceCents,
		AnnualMaintenanceCents: req.AnnualMaintenanceCents,
	}

	switch kind {
	case vehicleDomain.KindCar:
		if req.Car == nil {
			return nil, domain.NewValidationError("car attributes are required")
		}
		return vehicleDomain.NewCar(details, *req.Car)
	case vehicleDomain.KindVan:
		if req.Van == nil {
			return nil, domain.NewValidationError("van attributes are required")
		}
		return vehicleDomain.NewVan(details, *req.Van)
	default:
		if req.Motorcycle == nil {
			return nil, domain.NewValidationError("motorcycle attributes are required")
		}
		return vehicleDomain.NewMotorcycle(details, *req.Motorcycle)
	}
}

func toVehicleDTO(v *vehicleDomain.Vehicle) VehicleDTO {
	dto := VehicleDTO{
		ID:                     v.ID(),
		Kind:                   string(v.Kind()),
		Category:               v.Category(),
		Brand:                  v.Brand(),
		Model:                  v.Model(),
		Year:                   v.Year(),
		MileageKm:              v.MileageKm(),
		PurchasePriceCents:     v.PurchasePriceCents(),
		AnnualMaintenanceCents: v.AnnualMaintenanceCents(),
		DailyRateCents:         v.DailyRateCents(),
		CreatedAt:              v.CreatedAt(),
	}
	if car, ok := v.Car(); ok {
		dto.Car = &car
	}
	if van, ok := v.Van(); ok {
		dto.Van = &van
	}
	if moto, ok := v.Motorcycle(); ok {
		dto.Motorcycle = &moto
	}
	return dto
}

func toVehicleDTOs(vehicles []*vehicleDomain.Vehicle) []VehicleDTO {
	out := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		out[i] = toVehicleDTO(v)
	}
	return out
}
