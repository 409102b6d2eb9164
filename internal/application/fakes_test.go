package application

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetrent/service-reservation/internal/domain"
	clientDomain "github.com/fleetrent/service-reservation/internal/domain/client"
	"github.com/fleetrent/service-reservation/internal/domain/fleet"
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
	vehicleDomain "github.com/fleetrent/service-reservation/internal/domain/vehicle"
)

var now = time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)

// day returns midnight of the nth day of June 2030.
func day(n int) time.Time {
	return time.Date(2030, time.June, n, 0, 0, 0, 0, time.UTC)
}

type fakeVehicleRepo struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*vehicleDomain.Vehicle
	deleted []int64
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{byID: make(map[int64]*vehicleDomain.Vehicle)}
}

func (f *fakeVehicleRepo) FindByID(_ context.Context, id int64) (*vehicleDomain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Vehicle", strconv.FormatInt(id, 10))
	}
	return v, nil
}

func (f *fakeVehicleRepo) FindAll(_ context.Context) ([]*vehicleDomain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*vehicleDomain.Vehicle, 0, len(f.byID))
	for id := int64(1); id <= f.nextID; id++ {
		if v, ok := f.byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVehicleRepo) Save(_ context.Context, v *vehicleDomain.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if err := v.AssignID(f.nextID); err != nil {
		return err
	}
	f.byID[v.ID()] = v
	return nil
}

func (f *fakeVehicleRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.NewNotFoundError("Vehicle", strconv.FormatInt(id, 10))
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReservationRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    []*reservation.Reservation
	updates int
	// updateErr, when set, fails every Update.
	updateErr error
}

func (f *fakeReservationRepo) FindByID(_ context.Context, id int64) (*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, domain.NewNotFoundError("Reservation", strconv.FormatInt(id, 10))
}

func (f *fakeReservationRepo) FindByVehicleID(_ context.Context, vehicleID int64) ([]*reservation.Reservation, error) {
	return f.filter(func(r *reservation.Reservation) bool { return r.VehicleID() == vehicleID }), nil
}

func (f *fakeReservationRepo) FindByClientID(_ context.Context, clientID int64) ([]*reservation.Reservation, error) {
	return f.filter(func(r *reservation.Reservation) bool { return r.ClientID() == clientID }), nil
}

func (f *fakeReservationRepo) FindAll(_ context.Context) ([]*reservation.Reservation, error) {
	return f.filter(func(*reservation.Reservation) bool { return true }), nil
}

func (f *fakeReservationRepo) filter(keep func(*reservation.Reservation) bool) []*reservation.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*reservation.Reservation
	for _, r := range f.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeReservationRepo) Save(_ context.Context, r *reservation.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if err := r.AssignID(f.nextID); err != nil {
		return err
	}
	f.rows = append(f.rows, r)
	return nil
}

func (f *fakeReservationRepo) Update(_ context.Context, r *reservation.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	return nil
}

func (f *fakeReservationRepo) failUpdates(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

type fakeClientRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*clientDomain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{byID: make(map[int64]*clientDomain.Client)}
}

func (f *fakeClientRepo) FindByID(_ context.Context, id int64) (*clientDomain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Client", strconv.FormatInt(id, 10))
	}
	return c, nil
}

func (f *fakeClientRepo) Save(_ context.Context, c *clientDomain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email() == c.Email() {
			return domain.NewConflictError("email already registered")
		}
	}
	f.nextID++
	if err := c.AssignID(f.nextID); err != nil {
		return err
	}
	f.byID[c.ID()] = c
	return nil
}

func (f *fakeClientRepo) Update(_ context.Context, c *clientDomain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[c.ID()]; !ok {
		return domain.NewNotFoundError("Client", strconv.FormatInt(c.ID(), 10))
	}
	f.byID[c.ID()] = c
	return nil
}

// recordingNotifier keeps every lifecycle notification it receives.
type recordingNotifier struct {
	mu      sync.Mutex
	created []int64
	events  []reservation.EventType
	// onChanged runs before a change is recorded.
	onChanged func()
}

func (n *recordingNotifier) ReservationCreated(_ context.Context, r *reservation.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, r.ID())
}

func (n *recordingNotifier) ReservationChanged(_ *reservation.Reservation, e reservation.Event) {
	if n.onChanged != nil {
		n.onChanged()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e.Type)
}

type testEnv struct {
	vehicles     *fakeVehicleRepo
	reservations *fakeReservationRepo
	clients      *fakeClientRepo
	notifier     *recordingNotifier
	fleet        *FleetService
	reserve      *ReservationService
	client       *ClientService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		vehicles:     newFakeVehicleRepo(),
		reservations: &fakeReservationRepo{},
		clients:      newFakeClientRepo(),
		notifier:     &recordingNotifier{},
	}
	clock := fleet.FixedClock(now)
	log := zap.NewNop()
	env.fleet = NewFleetService(env.vehicles, env.reservations, env.notifier, clock, log)
	env.reserve = NewReservationService(env.fleet, env.reservations, env.clients, env.notifier, clock, log)
	env.client = NewClientService(env.clients, env.reservations, 2, log)
	return env
}

func (env *testEnv) addCar(t *testing.T, power int, options ...string) *VehicleDTO {
	t.Helper()
	v, err := env.fleet.AddVehicle(context.Background(), CreateVehicleRequest{
		Kind: "car", Brand: "Renault", Model: "Clio", Year: 2026, PurchasePriceCents: 1500000,
		Car: &vehicleDomain.CarSpec{Seats: 5, PowerHP: power, Fuel: vehicleDomain.FuelPetrol, Options: options},
	})
	require.NoError(t, err)
	return v
}

func (env *testEnv) addClient(t *testing.T, email string) *ClientDTO {
	t.Helper()
	c, err := env.client.CreateClient(context.Background(), CreateClientRequest{
		LastName: "Dupont", FirstName: "Marie", Email: email, Phone: "06 12 34 56 78",
	})
	require.NoError(t, err)
	return c
}

func (env *testEnv) book(t *testing.T, clientID, vehicleID int64, from, to int) *ReservationDTO {
	t.Helper()
	r, err := env.reserve.CreateReservation(context.Background(), CreateReservationRequest{
		ClientID: clientID, VehicleID: vehicleID, Start: day(from), End: day(to),
	})
	require.NoError(t, err)
	return r
}
