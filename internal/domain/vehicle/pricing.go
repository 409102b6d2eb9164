package vehicle

// Tariff bands, in cents per day.
const (
	carRateLow      int64 = 4000
	carRateMid      int64 = 5500
	carRateHigh     int64 = 7500
	carOptionCharge int64 = 500

	vanRateSmall      int64 = 7000
	vanRateMedium     int64 = 8500
	vanRateLarge      int64 = 10000
	vanLiftgateCharge int64 = 1000

	motoRateLight  int64 = 2500
	motoRateMiddle int64 = 4000
	motoRateHeavy  int64 = 6000
)

// DailyRateCents returns the day rate of the vehicle in cents. The rate is
// derived from the variant payload only.
func (v *Vehicle) DailyRateCents() int64 {
	switch v.kind {
	case KindCar:
		return carDailyRate(v.car)
	case KindVan:
		return vanDailyRate(v.van)
	case KindMotorcycle:
		return motorcycleDailyRate(v.motorcycle)
	}
	return 0
}

func carDailyRate(s CarSpec) int64 {
	var rate int64
	switch {
	case s.PowerHP < 100:
		rate = carRateLow
	case s.PowerHP < 150:
		rate = carRateMid
	default:
		rate = carRateHigh
	}
	return rate + int64(len(s.Options))*carOptionCharge
}

func vanDailyRate(s VanSpec) int64 {
	var rate int64
	switch {
	case s.VolumeM3 <= 10:
		rate = vanRateSmall
	case s.VolumeM3 <= 15:
		rate = vanRateMedium
	default:
		rate = vanRateLarge
	}
	if s.Liftgate {
		rate += vanLiftgateCharge
	}
	return rate
}

func motorcycleDailyRate(s MotorcycleSpec) int64 {
	switch {
	case s.DisplacementCC <= 125:
		return motoRateLight
	case s.DisplacementCC <= 600:
		return motoRateMiddle
	default:
		return motoRateHeavy
	}
}

// depreciationYears is the straight-line depreciation horizon.
const depreciationYears = 5

// OwnershipCostCents returns the cost of keeping the vehicle for the given
// number of years: purchase price depreciated over five years plus annual
// maintenance. Past the depreciation horizon only maintenance accrues.
func (v *Vehicle) OwnershipCostCents(years int) int64 {
	if years <= 0 {
		return 0
	}
	depreciation := v.purchasePriceCents / depreciationYears
	if years <= depreciationYears {
		return (depreciation + v.annualMaintenanceCents) * int64(years)
	}
	return (depreciation+v.annualMaintenanceCents)*depreciationYears +
		v.annualMaintenanceCents*int64(years-depreciationYears)
}
