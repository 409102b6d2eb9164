package vehicle

// Fuel types accepted for cars.
const (
	FuelPetrol   = "petrol"
	FuelDiesel   = "diesel"
	FuelElectric = "electric"
	FuelHybrid   = "hybrid"
)

// CarSpec holds the attributes specific to cars.
type CarSpec struct {
	Seats   int      `json:"seats"`
	PowerHP int      `json:"power_hp"`
	Fuel    string   `json:"fuel"`
	Options []string `json:"options,omitempty"`
}

// VanSpec holds the attributes specific to vans.
type VanSpec struct {
	VolumeM3  float64 `json:"volume_m3"`
	PayloadKg int     `json:"payload_kg"`
	Liftgate  bool    `json:"liftgate"`
}

// MotorcycleSpec holds the attributes specific to motorcycles.
type MotorcycleSpec struct {
	DisplacementCC int    `json:"displacement_cc"`
	Style          string `json:"style"`
}

// Details holds the attributes shared by every kind.
type Details struct {
	Brand                  string
	Model                  string
	Year                   int
	MileageKm              int
	PurchasePriceCents     int64
	AnnualMaintenanceCents int64
}

func isValidFuel(f string) bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}
