package vehicle

// Attribute names usable in search criteria.
const (
	AttrBrand        = "brand"
	AttrModel        = "model"
	AttrYear         = "year"
	AttrMileage      = "mileage"
	AttrCategory     = "category"
	AttrDailyRate    = "daily_rate"
	AttrSeats        = "seats"
	AttrPower        = "power"
	AttrFuel         = "fuel"
	AttrOptions      = "options"
	AttrVolume       = "volume"
	AttrPayload      = "payload"
	AttrLiftgate     = "liftgate"
	AttrDisplacement = "displacement"
	AttrStyle        = "style"
)

// Attribute looks up a named attribute. Numbers come back as float64,
// collections as []string. The second result is false when the vehicle's
// kind has no such attribute.
func (v *Vehicle) Attribute(name string) (any, bool) {
	switch name {
	case AttrBrand:
		return v.brand, true
	case AttrModel:
		return v.model, true
	case AttrYear:
		return float64(v.year), true
	case AttrMileage:
		return float64(v.mileageKm), true
	case AttrCategory:
		return v.Category(), true
	case AttrDailyRate:
		return float64(v.DailyRateCents()) / 100, true
	}

	switch v.kind {
	case KindCar:
		switch name {
		case AttrSeats:
			return float64(v.car.Seats), true
		case AttrPower:
			return float64(v.car.PowerHP), true
		case AttrFuel:
			return v.car.Fuel, true
		case AttrOptions:
			return append([]string(nil), v.car.Options...), true
		}
	case KindVan:
		switch name {
		case AttrVolume:
			return v.van.VolumeM3, true
		case AttrPayload:
			return float64(v.van.PayloadKg), true
		case AttrLiftgate:
			return v.van.Liftgate, true
		}
	case KindMotorcycle:
		switch name {
		case AttrDisplacement:
			return float64(v.motorcycle.DisplacementCC), true
		case AttrStyle:
			return v.motorcycle.Style, true
		}
	}
	return nil, false
}
