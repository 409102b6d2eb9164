package fleet

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetrent/service-reservation/internal/domain/period"
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
	"github.com/fleetrent/service-reservation/internal/domain/vehicle"
)

var today = time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)

// day returns midnight of the nth day of June 2030.
func day(n int) time.Time {
	return time.Date(2030, time.June, n, 0, 0, 0, 0, time.UTC)
}

func newCar(t *testing.T, id int64, power int, options ...string) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewCar(vehicle.Details{
		Brand: "Renault", Model: "Clio", Year: 2026, PurchasePriceCents: 1500000,
	}, vehicle.CarSpec{Seats: 5, PowerHP: power, Fuel: vehicle.FuelPetrol, Options: options})
	require.NoError(t, err)
	require.NoError(t, v.AssignID(id))
	return v
}

func newVan(t *testing.T, id int64, volume float64) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVan(vehicle.Details{
		Brand: "Citroen", Model: "Jumpy", Year: 2020, PurchasePriceCents: 2000000,
	}, vehicle.VanSpec{VolumeM3: volume, PayloadKg: 1000})
	require.NoError(t, err)
	require.NoError(t, v.AssignID(id))
	return v
}

func newReservation(t *testing.T, id, vehicleID int64, from, to int) *reservation.Reservation {
	t.Helper()
	r, err := reservation.New(1, vehicleID, day(from), day(to))
	require.NoError(t, err)
	require.NoError(t, r.AssignID(id))
	return r
}

func newFleet(t *testing.T, vehicles ...*vehicle.Vehicle) *Fleet {
	t.Helper()
	f := New(FixedClock(today))
	for _, v := range vehicles {
		require.True(t, f.AddVehicle(v))
	}
	return f
}

func TestAddVehicle_RejectsDuplicateID(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90))
	assert.False(t, f.AddVehicle(newCar(t, 1, 120)))
	assert.Len(t, f.Vehicles(), 1)

	v, ok := f.FindVehicle(1)
	require.True(t, ok)
	car, _ := v.Car()
	assert.Equal(t, 90, car.PowerHP)

	_, ok = f.FindVehicle(42)
	assert.False(t, ok)
}

func TestRemoveVehicle_Guard(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90), newCar(t, 2, 90))
	r := newReservation(t, 10, 1, 5, 8)
	require.True(t, f.RegisterReservation(r))

	assert.False(t, f.RemoveVehicle(99))
	assert.True(t, f.HasActiveReservations(1))
	assert.False(t, f.RemoveVehicle(1))

	require.True(t, r.Cancel())
	assert.False(t, f.HasActiveReservations(1))
	assert.True(t, f.RemoveVehicle(1))
	assert.Len(t, f.Vehicles(), 1)

	assert.True(t, f.RemoveVehicle(2))
}

func TestHasActiveReservations_EndingTodayCounts(t *testing.T) {
	f := New(FixedClock(day(10).Add(15 * time.Hour)))
	require.True(t, f.AddVehicle(newCar(t, 1, 90)))
	require.True(t, f.RegisterReservation(newReservation(t, 10, 1, 7, 10)))
	assert.True(t, f.HasActiveReservations(1))

	f = New(FixedClock(day(11)))
	require.True(t, f.AddVehicle(newCar(t, 1, 90)))
	require.True(t, f.RegisterReservation(newReservation(t, 10, 1, 7, 10)))
	assert.False(t, f.HasActiveReservations(1))
}

func TestRegisterReservation(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90), newCar(t, 2, 90))

	a := newReservation(t, 10, 1, 10, 15)
	require.True(t, f.RegisterReservation(a))

	t.Run("unknown vehicle", func(t *testing.T) {
		assert.False(t, f.RegisterReservation(newReservation(t, 11, 7, 1, 2)))
		assert.Len(t, f.Reservations(), 1)
	})

	t.Run("overlapping window is refused", func(t *testing.T) {
		assert.False(t, f.RegisterReservation(newReservation(t, 12, 1, 15, 18)))
		assert.False(t, f.RegisterReservation(newReservation(t, 13, 1, 8, 12)))
		assert.Len(t, f.Reservations(), 1)
	})

	t.Run("same reservation twice is refused", func(t *testing.T) {
		assert.False(t, f.RegisterReservation(a))
		assert.Len(t, f.Reservations(), 1)
	})

	t.Run("other vehicle or adjacent window is accepted", func(t *testing.T) {
		assert.True(t, f.RegisterReservation(newReservation(t, 14, 2, 10, 15)))
		assert.True(t, f.RegisterReservation(newReservation(t, 15, 1, 16, 18)))
		assert.Len(t, f.Reservations(), 3)
	})

	t.Run("cancelled reservation stops blocking", func(t *testing.T) {
		require.True(t, a.Cancel())
		assert.True(t, f.RegisterReservation(newReservation(t, 16, 1, 11, 12)))
	})

	got, ok := f.FindReservation(15)
	require.True(t, ok)
	assert.Equal(t, day(16), got.Start())
	_, ok = f.FindReservation(999)
	assert.False(t, ok)
}

func TestIsFree_SingleReservation(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90))
	require.True(t, f.RegisterReservation(newReservation(t, 10, 1, 10, 15)))

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{"window contains reservation, both sides free", 5, 20, true},
		{"reservation contains window", 12, 13, false},
		{"identical window", 10, 15, false},
		{"entirely before", 1, 9, true},
		{"entirely after", 16, 20, true},
		{"sub-window before the start overlap", 8, 9, true},
		// The reservation overlaps the end of the window, which is trimmed
		// to [8, 9] and that part is free.
		{"reservation overlaps window end", 8, 12, true},
		{"reservation overlaps window start", 13, 20, true},
		{"touching end", 15, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsFree(1, day(tt.from), day(tt.to)))
		})
	}
}

func TestIsFree_EmptyWindowIsFree(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90))
	require.True(t, f.RegisterReservation(newReservation(t, 10, 1, 1, 30)))
	assert.True(t, f.IsFree(1, day(12), day(11)))
}

func TestIsFree_SplitRecursesIntoBothSides(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90))
	require.True(t, f.RegisterReservation(newReservation(t, 10, 1, 10, 15)))
	require.True(t, f.RegisterReservation(newReservation(t, 11, 1, 17, 18)))
	assert.True(t, f.IsFree(1, day(5), day(20)))

	require.True(t, f.RegisterReservation(newReservation(t, 12, 1, 19, 25)))
	// [16, 20] is split by [17, 18]; its right side [19, 20] is covered.
	assert.False(t, f.IsFree(1, day(5), day(20)))
	assert.True(t, f.IsFree(1, day(5), day(9)))
}

func TestIsFree_CancelledAndOtherVehiclesIgnored(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90), newCar(t, 2, 90))
	r := newReservation(t, 10, 1, 10, 15)
	require.True(t, f.RegisterReservation(r))
	require.True(t, f.RegisterReservation(newReservation(t, 11, 2, 1, 30)))

	assert.False(t, f.IsFree(1, day(11), day(12)))
	r.Cancel()
	assert.True(t, f.IsFree(1, day(11), day(12)))
}

func TestIsFree_IndependentOfRegistrationOrder(t *testing.T) {
	ranges := [][2]int{{4, 6}, {1, 3}, {9, 10}, {12, 16}, {20, 21}, {24, 28}}
	rng := rand.New(rand.NewSource(7))

	answers := func(order []int) []bool {
		f := newFleet(t, newCar(t, 1, 90))
		for _, i := range order {
			require.True(t, f.RegisterReservation(newReservation(t, int64(i+1), 1, ranges[i][0], ranges[i][1])))
		}
		var out []bool
		for from := 1; from <= 30; from++ {
			for to := from; to <= 30; to++ {
				out = append(out, f.IsFree(1, day(from), day(to)))
			}
		}
		return out
	}

	base := answers([]int{0, 1, 2, 3, 4, 5})
	for i := 0; i < 20; i++ {
		assert.Equal(t, base, answers(rng.Perm(len(ranges))))
	}
}

func TestIsFree_OverlappingEdgesResolvedByStartOrder(t *testing.T) {
	// Taking [7,10] first would trim the window to [1,6], let [5,6] split
	// it into [1,4] and an empty tail, and answer free.
	late := func() *reservation.Reservation { return newReservation(t, 1, 1, 7, 10) }
	early := func() *reservation.Reservation { return newReservation(t, 2, 1, 5, 6) }

	for name, order := range map[string][]func() *reservation.Reservation{
		"late registered first":  {late, early},
		"early registered first": {early, late},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFleet(t, newCar(t, 1, 90))
			for _, mk := range order {
				require.True(t, f.RegisterReservation(mk()))
			}
			assert.False(t, f.IsFree(1, day(1), day(10)))
			assert.True(t, f.IsFree(1, day(1), day(4)))
			assert.Equal(t, []period.Period{period.New(day(1), day(4))}, f.FreePeriods(1, day(1), day(10)))
		})
	}
}

func TestFreePeriods(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90))
	require.True(t, f.RegisterReservation(newReservation(t, 10, 1, 10, 15)))
	require.True(t, f.RegisterReservation(newReservation(t, 11, 1, 18, 19)))

	assert.Equal(t, []period.Period{period.New(day(8), day(9))}, f.FreePeriods(1, day(8), day(12)))
	assert.Equal(t, []period.Period{
		period.New(day(5), day(9)),
		period.New(day(16), day(17)),
		period.New(day(20), day(22)),
	}, f.FreePeriods(1, day(5), day(22)))
	assert.Empty(t, f.FreePeriods(1, day(11), day(14)))
	assert.Equal(t, []period.Period{period.New(day(1), day(5))}, f.FreePeriods(1, day(1), day(5)))
	assert.Nil(t, f.FreePeriods(1, day(5), day(1)))
}

func TestIsVehicleAvailable(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90))
	require.True(t, f.RegisterReservation(newReservation(t, 10, 1, 10, 15)))

	assert.False(t, f.IsVehicleAvailable(1, day(8), day(12), 0))
	assert.True(t, f.IsVehicleAvailable(1, day(8), day(12), 10))
	assert.True(t, f.IsVehicleAvailable(1, day(16), day(20), 0))
	assert.False(t, f.IsVehicleAvailable(2, day(16), day(20), 0))
}

func TestFindAvailable(t *testing.T) {
	c1 := newCar(t, 1, 90)
	c2 := newCar(t, 2, 130, "gps")
	van := newVan(t, 3, 12)
	c3 := newCar(t, 4, 180, "gps", "heated seats")
	f := newFleet(t, c1, c2, van, c3)
	require.True(t, f.RegisterReservation(newReservation(t, 10, 2, 1, 30)))

	got := f.FindAvailable(vehicle.KindCar, nil, day(10), day(12))
	assert.Equal(t, []*vehicle.Vehicle{c1, c3}, got)

	got = f.FindAvailable(vehicle.KindCar, Criteria{"options": Exact("gps")}, day(10), day(12))
	assert.Equal(t, []*vehicle.Vehicle{c3}, got)

	got = f.FindAvailable(vehicle.KindVan, Criteria{"volume": AtLeast(10)}, day(10), day(12))
	assert.Equal(t, []*vehicle.Vehicle{van}, got)

	assert.Empty(t, f.FindAvailable(vehicle.KindMotorcycle, nil, day(10), day(12)))
}

func TestMatchesCriteria(t *testing.T) {
	car99 := newCar(t, 1, 99, "gps")
	car100 := newCar(t, 2, 100)
	car150 := newCar(t, 3, 150)

	min100 := Criteria{"power": AtLeast(100)}
	assert.False(t, MatchesCriteria(car99, min100))
	assert.True(t, MatchesCriteria(car100, min100))
	assert.True(t, MatchesCriteria(car150, min100))

	lo, hi := 100.0, 120.0
	between := Criteria{"power": Range(&lo, &hi)}
	assert.True(t, MatchesCriteria(car100, between))
	assert.False(t, MatchesCriteria(car150, between))

	assert.True(t, MatchesCriteria(car99, nil))
	assert.True(t, MatchesCriteria(car99, Criteria{}))
	assert.True(t, MatchesCriteria(car99, Criteria{"brand": Exact("Renault")}))
	assert.False(t, MatchesCriteria(car99, Criteria{"brand": Exact("Peugeot")}))
	assert.True(t, MatchesCriteria(car99, Criteria{"seats": Exact(5)}))
	assert.True(t, MatchesCriteria(car99, Criteria{"options": Exact("gps")}))
	assert.False(t, MatchesCriteria(car100, Criteria{"options": Exact("gps")}))

	// Vans have a volume, cars do not.
	assert.False(t, MatchesCriteria(car99, Criteria{"volume": AtLeast(0)}))
	assert.False(t, MatchesCriteria(car99, Criteria{"brand": AtLeast(0)}))
}

func TestCriteriaFromMap(t *testing.T) {
	c, err := CriteriaFromMap(map[string]any{
		"power":   map[string]any{"min": float64(100)},
		"options": "gps",
		"seats":   float64(5),
	})
	require.NoError(t, err)

	assert.True(t, MatchesCriteria(newCar(t, 1, 110, "gps"), c))
	assert.False(t, MatchesCriteria(newCar(t, 2, 90, "gps"), c))
	assert.False(t, MatchesCriteria(newCar(t, 3, 110), c))

	anyFuel, err := CriteriaFromMap(map[string]any{"fuel": map[string]any{}})
	require.NoError(t, err)
	assert.True(t, MatchesCriteria(newCar(t, 4, 90), anyFuel))
	assert.False(t, MatchesCriteria(newVan(t, 5, 8), anyFuel))

	_, err = CriteriaFromMap(map[string]any{"power": map[string]any{"min": "high"}})
	assert.Error(t, err)
	_, err = CriteriaFromMap(map[string]any{"power": map[string]any{"above": float64(1)}})
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	f := newFleet(t, newCar(t, 1, 90), newCar(t, 2, 90), newVan(t, 3, 8))
	require.True(t, f.RegisterReservation(newReservation(t, 10, 1, 1, 3)))

	s := f.Stats()
	assert.Equal(t, 3, s.TotalVehicles)
	assert.Equal(t, int64(5000000), s.TotalPurchaseValueCents)
	assert.Equal(t, 2, s.ByKind[vehicle.KindCar].Count)
	assert.InDelta(t, 4.0, s.ByKind[vehicle.KindCar].AverageAgeYears, 0.001)
	assert.InDelta(t, 10.0, s.ByKind[vehicle.KindVan].AverageAgeYears, 0.001)
	assert.Equal(t, 0, s.ByKind[vehicle.KindMotorcycle].Count)
	assert.Equal(t, 1, s.ActiveReservations)
}

func TestUtilization(t *testing.T) {
	now := time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC)
	f := New(FixedClock(now))
	require.True(t, f.AddVehicle(newCar(t, 1, 90)))
	require.True(t, f.AddVehicle(newCar(t, 2, 90)))

	r1, err := reservation.New(1, 1, now.AddDate(0, 0, -100), now.AddDate(0, 0, -27))
	require.NoError(t, err)
	require.True(t, f.RegisterReservation(r1))
	r1.Complete()

	r2, err := reservation.New(1, 1, now.AddDate(0, 0, -10), now.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.True(t, f.RegisterReservation(r2))
	r2.Cancel()

	// 73 elapsed days count as 74 inclusive days.
	assert.InDelta(t, 74.0/365.0, f.Utilization(1), 1e-9)
	assert.Equal(t, 0.0, f.Utilization(2))

	whole, err := reservation.New(1, 2, now.AddDate(-2, 0, 0), now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.True(t, f.RegisterReservation(whole))
	assert.Equal(t, 1.0, f.Utilization(2))
}
