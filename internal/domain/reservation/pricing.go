package reservation

// Discount tiers. The largest threshold reached wins.
const (
	WeekThresholdDays  = 7
	MonthThresholdDays = 30

	weekDiscountPercent  int64 = 10
	monthDiscountPercent int64 = 20
)

// RateSource supplies the day rate used to price a reservation.
type RateSource interface {
	DailyRateCents() int64
}

// DiscountPercent returns the duration discount applied to a rental of the
// given number of days.
func DiscountPercent(days int) int64 {
	switch {
	case days >= MonthThresholdDays:
		return monthDiscountPercent
	case days >= WeekThresholdDays:
		return weekDiscountPercent
	default:
		return 0
	}
}

// PriceCents returns the price of renting at dailyRateCents for the given
// number of days, rounded to the nearest cent.
//
// Crossing a tier threshold never makes a rental cheaper than the last day
// count of the previous tier: the price is floored at that amount.
func PriceCents(dailyRateCents int64, days int) int64 {
	if days < 1 {
		days = 1
	}
	price := discounted(dailyRateCents, days)
	switch {
	case days >= MonthThresholdDays:
		price = max(price, discounted(dailyRateCents, MonthThresholdDays-1))
	case days >= WeekThresholdDays:
		price = max(price, discounted(dailyRateCents, WeekThresholdDays-1))
	}
	return price
}

func discounted(dailyRateCents int64, days int) int64 {
	base := dailyRateCents * int64(days)
	return (base*(100-DiscountPercent(days)) + 50) / 100
}
