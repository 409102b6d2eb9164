package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/fleetrent/service-reservation/internal/domain"
	vehicleDomain "github.com/fleetrent/service-reservation/internal/domain/vehicle"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID                     int64           `gorm:"primaryKey;autoIncrement"`
	Kind                   string          `gorm:"not null;size:20;index"`
	Category               string          `gorm:"not null;size:20"`
	Brand                  string          `gorm:"not null;size:100"`
	Model                  string          `gorm:"not null;size:100"`
	Year                   int             `gorm:"not null"`
	MileageKm              int             `gorm:"not null;default:0"`
	PurchasePriceCents     int64           `gorm:"not null;default:0"`
	AnnualMaintenanceCents int64           `gorm:"not null;default:0"`
	Attributes             json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt              time.Time       `gorm:"not null"`
	UpdatedAt              time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// GormVehicleRepository is the GORM-based implementation of vehicle.Repository.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by its identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id int64) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	return toDomainVehicle(&model)
}

// FindAll retrieves every vehicle in id order.
func (r *GormVehicleRepository) FindAll(ctx context.Context) ([]*vehicleDomain.Vehicle, error) {
	var models []VehicleModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*vehicleDomain.Vehicle, len(models))
	for i := range models {
		v, err := toDomainVehicle(&models[i])
		if err != nil {
			return nil, err
		}
		vehicles[i] = v
	}
	return vehicles, nil
}

// Save inserts a new vehicle and assigns the generated id to it.
func (r *GormVehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model, err := toVehicleModel(v)
	if err != nil {
		return fmt.Errorf("failed to convert vehicle to model: %w", err)
	}
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return v.AssignID(model.ID)
}

// Delete removes a vehicle. Reservation rows keep their vehicle_id as
// history.
func (r *GormVehicleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&VehicleModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", strconv.FormatInt(id, 10))
	}
	return nil
}

// --- Conversion Helpers ---

func toVehicleModel(v *vehicleDomain.Vehicle) (*VehicleModel, error) {
	var payload any
	switch v.Kind() {
	case vehicleDomain.KindCar:
		payload, _ = v.Car()
	case vehicleDomain.KindVan:
		payload, _ = v.Van()
	case vehicleDomain.KindMotorcycle:
		payload, _ = v.Motorcycle()
	default:
		return nil, fmt.Errorf("unknown vehicle kind: %s", v.Kind())
	}

	attrs, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vehicle attributes: %w", err)
	}

	return &VehicleModel{
		ID:                     v.ID(),
		Kind:                   string(v.Kind()),
		Category:               v.Category(),
		Brand:                  v.Brand(),
		Model:                  v.Model(),
		Year:                   v.Year(),
		MileageKm:              v.MileageKm(),
		PurchasePriceCents:     v.PurchasePriceCents(),
		AnnualMaintenanceCents: v.AnnualMaintenanceCents(),
		Attributes:             attrs,
		CreatedAt:              v.CreatedAt(),
		UpdatedAt:              v.UpdatedAt(),
	}, nil
}

// toDomainVehicle ignores the stored category: it is derived from kind.
func toDomainVehicle(m *VehicleModel) (*vehicleDomain.Vehicle, error) {
	kind, err := vehicleDomain.ParseKind(m.Kind)
	if err != nil {
		return nil, err
	}
	details := vehicleDomain.Details{
		Brand:                  m.Brand,
		Model:                  m.Model,
		Year:                   m.Year,
		MileageKm:              m.MileageKm,
		PurchasePriceCents:     m.PurchasePriceCents,
		AnnualMaintenanceCents: m.AnnualMaintenanceCents,
	}

	var (
		car  *vehicleDomain.CarSpec
		van  *vehicleDomain.VanSpec
		moto *vehicleDomain.MotorcycleSpec
		dst  any
	)
	switch kind {
	case vehicleDomain.KindCar:
		car = &vehicleDomain.CarSpec{}
		dst = car
	case vehicleDomain.KindVan:
		van = &vehicleDomain.VanSpec{}
		dst = van
	case vehicleDomain.KindMotorcycle:
		moto = &vehicleDomain.MotorcycleSpec{}
		dst = moto
	}
	if len(m.Attributes) > 0 {
		if err := json.Unmarshal(m.Attributes, dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attributes of vehicle %d: %w", m.ID, err)
		}
	}

	return vehicleDomain.Reconstruct(m.ID, kind, details, car, van, moto, m.CreatedAt, m.UpdatedAt), nil
}
