package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/fleetrent/service-reservation/internal/domain"
	reservationDomain "github.com/fleetrent/service-reservation/internal/domain/reservation"
)

// ReservationModel is the GORM model for the reservations table.
type ReservationModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ClientID   int64     `gorm:"not null;index"`
	VehicleID  int64     `gorm:"not null;index"`
	StartAt    time.Time `gorm:"not null"`
	EndAt      time.Time `gorm:"not null"`
	PriceCents *int64    `gorm:""`
	Status     string    `gorm:"not null;size:20;index"`
	Version    int64     `gorm:"not null;default:1"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReservationModel) TableName() string {
	return "reservations"
}

// GormReservationRepository is the GORM-based implementation of reservation.Repository.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository.
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID retrieves a reservation by its identifier.
func (r *GormReservationRepository) FindByID(ctx context.Context, id int64) (*reservationDomain.Reservation, error) {
	var model ReservationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Reservation", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find reservation by ID: %w", err)
	}
	return toDomainReservation(&model)
}

// FindByVehicleID retrieves every reservation of a vehicle.
func (r *GormReservationRepository) FindByVehicleID(ctx context.Context, vehicleID int64) ([]*reservationDomain.Reservation, error) {
	return r.find(ctx, r.db.Where("vehicle_id = ?", vehicleID))
}

// FindByClientID retrieves every reservation of a client.
func (r *GormReservationRepository) FindByClientID(ctx context.Context, clientID int64) ([]*reservationDomain.Reservation, error) {
	return r.find(ctx, r.db.Where("client_id = ?", clientID))
}

// FindAll retrieves every reservation.
func (r *GormReservationRepository) FindAll(ctx context.Context) ([]*reservationDomain.Reservation, error) {
	return r.find(ctx, r.db)
}

func (r *GormReservationRepository) find(ctx context.Context, query *gorm.DB) ([]*reservationDomain.Reservation, error) {
	var models []ReservationModel
	if err := query.WithContext(ctx).Order("start_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}

	reservations := make([]*reservationDomain.Reservation, len(models))
	for i := range models {
		res, err := toDomainReservation(&models[i])
		if err != nil {
			return nil, err
		}
		reservations[i] = res
	}
	return reservations, nil
}

// Save inserts a new reservation and assigns the generated id to it.
func (r *GormReservationRepository) Save(ctx context.Context, res *reservationDomain.Reservation) error {
	model := toReservationModel(res)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}
	return res.AssignID(model.ID)
}

// Update persists changes to an existing reservation with optimistic locking.
func (r *GormReservationRepository) Update(ctx context.Context, res *reservationDomain.Reservation) error {
	model := toReservationModel(res)

	// The caller has already called IncrementVersion.
	expectedVersion := res.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"start_at":    model.StartAt,
			"end_at":      model.EndAt,
			"price_cents": model.PriceCents,
			"status":      model.Status,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("reservation was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toReservationModel(res *reservationDomain.Reservation) *ReservationModel {
	return &ReservationModel{
		ID:         res.ID(),
		ClientID:   res.ClientID(),
		VehicleID:  res.VehicleID(),
		StartAt:    res.Start(),
		EndAt:      res.End(),
		PriceCents: res.PriceCents(),
		Status:     string(res.Status()),
		Version:    res.Version(),
		CreatedAt:  res.CreatedAt(),
		UpdatedAt:  res.UpdatedAt(),
	}
}

func toDomainReservation(m *ReservationModel) (*reservationDomain.Reservation, error) {
	res, err := reservationDomain.Restore(
		m.ID, m.ClientID, m.VehicleID,
		m.StartAt.UTC(), m.EndAt.UTC(),
		m.PriceCents, m.Status, m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to restore reservation %d: %w", m.ID, err)
	}
	return res, nil
}
