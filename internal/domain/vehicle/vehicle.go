package vehicle

import (
	"fmt"
	"strings"
	"time"

	"github.com/fleetrent/service-reservation/internal/domain"
)

// Vehicle is a rentable vehicle. Exactly one of the variant payloads is
// meaningful, selected by kind.
type Vehicle struct {
	id                     int64
	kind                   Kind
	brand                  string
	model                  string
	year                   int
	mileageKm              int
	purchasePriceCents     int64
	annualMaintenanceCents int64

	car        CarSpec
	van        VanSpec
	motorcycle MotorcycleSpec

	createdAt time.Time
	updatedAt time.Time
}

func validateDetails(d Details) error {
	if strings.TrimSpace(d.Brand) == "" {
		return domain.NewValidationError("brand is required")
	}
	if strings.TrimSpace(d.Model) == "" {
		return domain.NewValidationError("model is required")
	}
	if d.Year < 1900 {
		return domain.NewValidationError(fmt.Sprintf("invalid year: %d", d.Year))
	}
	if d.MileageKm < 0 {
		return domain.NewValidationError("mileage cannot be negative")
	}
	if d.PurchasePriceCents < 0 || d.AnnualMaintenanceCents < 0 {
		return domain.NewValidationError("costs cannot be negative")
	}
	return nil
}

func newVehicle(kind Kind, d Details) *Vehicle {
	now := time.Now().UTC()
	return &Vehicle{
		kind:                   kind,
		brand:                  d.Brand,
		model:                  d.Model,
		year:                   d.Year,
		mileageKm:              d.MileageKm,
		purchasePriceCents:     d.PurchasePriceCents,
		annualMaintenanceCents: d.AnnualMaintenanceCents,
		createdAt:              now,
		updatedAt:              now,
	}
}

// NewCar creates a car with no id. The id is assigned when it is saved.
func NewCar(d Details, spec CarSpec) (*Vehicle, error) {
	if err := validateDetails(d); err != nil {
		return nil, err
	}
	if spec.Seats < 1 {
		return nil, domain.NewValidationError("a car needs at least one seat")
	}
	if spec.PowerHP <= 0 {
		return nil, domain.NewValidationError("power must be positive")
	}
	if !isValidFuel(spec.Fuel) {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid fuel: %s", spec.Fuel))
	}
	v := newVehicle(KindCar, d)
	v.car = CarSpec{
		Seats:   spec.Seats,
		PowerHP: spec.PowerHP,
		Fuel:    spec.Fuel,
		Options: append([]string(nil), spec.Options...),
	}
	return v, nil
}

// NewVan creates a van with no id.
func NewVan(d Details, spec VanSpec) (*Vehicle, error) {
	if err := validateDetails(d); err != nil {
		return nil, err
	}
	if spec.VolumeM3 < 0 {
		return nil, domain.NewValidationError("volume cannot be negative")
	}
	if spec.PayloadKg < 0 {
		return nil, domain.NewValidationError("payload cannot be negative")
	}
	v := newVehicle(KindVan, d)
	v.van = spec
	return v, nil
}

// NewMotorcycle creates a motorcycle with no id.
func NewMotorcycle(d Details, spec MotorcycleSpec) (*Vehicle, error) {
	if err := validateDetails(d); err != nil {
		return nil, err
	}
	if spec.DisplacementCC < 50 {
		return nil, domain.NewValidationError("displacement must be at least 50cc")
	}
	v := newVehicle(KindMotorcycle, d)
	v.motorcycle = spec
	return v, nil
}

// Reconstruct rebuilds a Vehicle from persistence data (no validation).
// Only the payload matching kind is kept.
func Reconstruct(
	id int64,
	kind Kind,
	d Details,
	car *CarSpec,
	van *VanSpec,
	motorcycle *MotorcycleSpec,
	createdAt, updatedAt time.Time,
) *Vehicle {
	v := &Vehicle{
		id:                     id,
		kind:                   kind,
		brand:                  d.Brand,
		model:                  d.Model,
		year:                   d.Year,
		mileageKm:              d.MileageKm,
		purchasePriceCents:     d.PurchasePriceCents,
		annualMaintenanceCents: d.AnnualMaintenanceCents,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
	switch kind {
	case KindCar:
		if car != nil {
			v.car = *car
		}
	case KindVan:
		if van != nil {
			v.van = *van
		}
	case KindMotorcycle:
		if motorcycle != nil {
			v.motorcycle = *motorcycle
		}
	}
	return v
}

// --- Getters ---

func (v *Vehicle) ID() int64                     { return v.id }
func (v *Vehicle) Kind() Kind                    { return v.kind }
func (v *Vehicle) Category() string              { return v.kind.Category() }
func (v *Vehicle) Brand() string                 { return v.brand }
func (v *Vehicle) Model() string                 { return v.model }
func (v *Vehicle) Year() int                     { return v.year }
func (v *Vehicle) MileageKm() int                { return v.mileageKm }
func (v *Vehicle) PurchasePriceCents() int64     { return v.purchasePriceCents }
func (v *Vehicle) AnnualMaintenanceCents() int64 { return v.annualMaintenanceCents }
func (v *Vehicle) CreatedAt() time.Time          { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time          { return v.updatedAt }

// Details returns the attributes shared by every kind.
func (v *Vehicle) Details() Details {
	return Details{
		Brand:                  v.brand,
		Model:                  v.model,
		Year:                   v.year,
		MileageKm:              v.mileageKm,
		PurchasePriceCents:     v.purchasePriceCents,
		AnnualMaintenanceCents: v.annualMaintenanceCents,
	}
}

// Car returns the car payload, or false for other kinds.
func (v *Vehicle) Car() (CarSpec, bool) {
	if v.kind != KindCar {
		return CarSpec{}, false
	}
	s := v.car
	s.Options = append([]string(nil), v.car.Options...)
	return s, true
}

// Van returns the van payload, or false for other kinds.
func (v *Vehicle) Van() (VanSpec, bool) {
	return v.van, v.kind == KindVan
}

// Motorcycle returns the motorcycle payload, or false for other kinds.
func (v *Vehicle) Motorcycle() (MotorcycleSpec, bool) {
	return v.motorcycle, v.kind == KindMotorcycle
}

// --- Behavior ---

// AssignID sets the identity handed out by persistence. An id can only be
// set once.
func (v *Vehicle) AssignID(id int64) error {
	if v.id != 0 {
		return domain.NewValidationError(fmt.Sprintf("vehicle already has id %d", v.id))
	}
	if id <= 0 {
		return domain.NewValidationError("vehicle id must be positive")
	}
	v.id = id
	return nil
}

// AddOption appends an option to a car. Duplicates are ignored.
func (v *Vehicle) AddOption(option string) error {
	if v.kind != KindCar {
		return domain.NewValidationError("options only apply to cars")
	}
	option = strings.TrimSpace(option)
	if option == "" {
		return domain.NewValidationError("option is required")
	}
	for _, o := range v.car.Options {
		if o == option {
			return nil
		}
	}
	v.car.Options = append(v.car.Options, option)
	v.updatedAt = time.Now().UTC()
	return nil
}

// UpdateMileage records a new odometer reading. Mileage never decreases.
func (v *Vehicle) UpdateMileage(km int) error {
	if km < v.mileageKm {
		return domain.NewValidationError("mileage cannot decrease")
	}
	v.mileageKm = km
	v.updatedAt = time.Now().UTC()
	return nil
}

// AgeAt returns the age of the vehicle in whole years at the given instant.
func (v *Vehicle) AgeAt(now time.Time) int {
	age := now.Year() - v.year
	if age < 0 {
		return 0
	}
	return age
}
