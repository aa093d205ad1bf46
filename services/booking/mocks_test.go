package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "autocare/database/repository/booking"
	serviceRepo "autocare/database/repository/service"
	userRepo "autocare/database/repository/user"
	vehicleRepo "autocare/database/repository/vehicle"
	"autocare/models"

	"go.uber.org/zap"
)

// testNow is the fixed clock all lifecycle tests run against.
var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)

// memBookingRepo is an in-memory BookingRepository for tests.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	order    []string
	failWith error
	txCalls  int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *memBookingRepo) Create(_ context.Context, b *models.Booking) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = *b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (r *memBookingRepo) Replace(_ context.Context, b *models.Booking) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return bookingRepo.ErrNotFound
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *memBookingRepo) ListByMechanicAndStatus(_ context.Context, mechanicID string, statuses []models.BookingStatus) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if b.MechanicID != mechanicID {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListMechanicCalendar(_ context.Context, mechanicID string, statuses []models.BookingStatus, fromDate, toDate string) ([]models.Booking, error) {
	rows, err := r.ListByMechanicAndStatus(context.Background(), mechanicID, statuses)
	if err != nil {
		return nil, err
	}
	var out []models.Booking
	for _, b := range rows {
		if fromDate != "" && toDate != "" {
			if b.BookingDate < fromDate || b.BookingDate >= toDate {
				continue
			}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookingDate != out[j].BookingDate {
			return out[i].BookingDate < out[j].BookingDate
		}
		return out[i].BookingTime < out[j].BookingTime
	})
	return out, nil
}

func (r *memBookingRepo) List(_ context.Context, f bookingRepo.ListFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if f.OwnerID != "" && b.OwnerID != f.OwnerID {
			continue
		}
		if f.MechanicID != "" && b.MechanicID != f.MechanicID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// WithTransaction just runs fn; the lifecycle service's per-mechanic lock
// already serializes callers, and the map writes are individually atomic.
func (r *memBookingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	r.txCalls++
	r.mu.Unlock()
	return fn(ctx)
}

func (r *memBookingRepo) txCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.txCalls
}

// stubUserRepo serves users from a fixed map.
type stubUserRepo struct {
	users map[string]models.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return &u, nil
}

// stubVehicleRepo serves vehicles from a fixed map.
type stubVehicleRepo struct {
	vehicles map[string]models.Vehicle
}

func (r *stubVehicleRepo) GetByID(_ context.Context, id string) (*models.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, vehicleRepo.ErrNotFound
	}
	return &v, nil
}

// stubServiceRepo serves services and counts booking counter bumps.
type stubServiceRepo struct {
	services   map[string]models.Service
	increments map[string]int
}

func (r *stubServiceRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrNotFound
	}
	return &s, nil
}

func (r *stubServiceRepo) IncrementBookingCount(_ context.Context, id string) error {
	if r.increments == nil {
		r.increments = make(map[string]int)
	}
	r.increments[id]++
	return nil
}

// capturePublisher records published events; failWith simulates a broken
// notification collaborator.
type capturePublisher struct {
	mu       sync.Mutex
	events   []models.BookingEvent
	failWith error
}

func (p *capturePublisher) PublishBookingEvent(_ context.Context, event models.BookingEvent) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) kinds() []models.BookingEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.BookingEventKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

// newTestService wires a lifecycle service against in-memory fakes with a
// fixed clock.
func newTestService() (*DefaultLifecycleService, *memBookingRepo, *stubServiceRepo, *capturePublisher) {
	bookings := newMemBookingRepo()
	users := &stubUserRepo{users: map[string]models.User{
		"owner-1":       {ID: "owner-1", Name: "Dana", Role: models.RoleCustomer, IsActive: true},
		"owner-2":       {ID: "owner-2", Name: "Femi", Role: models.RoleCustomer, IsActive: true},
		"mech-1":        {ID: "mech-1", Name: "Rita", Role: models.RoleMechanic, IsActive: true},
		"mech-2":        {ID: "mech-2", Name: "Sam", Role: models.RoleMechanic, IsActive: true},
		"mech-inactive": {ID: "mech-inactive", Name: "Olu", Role: models.RoleMechanic, IsActive: false},
		"admin-1":       {ID: "admin-1", Name: "Ada", Role: models.RoleAdmin, IsActive: true},
	}}
	vehicles := &stubVehicleRepo{vehicles: map[string]models.Vehicle{
		"veh-1": {ID: "veh-1", OwnerID: "owner-1", Make: "Toyota", Model: "Corolla", Year: 2019},
		"veh-2": {ID: "veh-2", OwnerID: "owner-2", Make: "Honda", Model: "Civic", Year: 2021},
	}}
	services := &stubServiceRepo{services: map[string]models.Service{
		"svc-oil": {
			ID: "svc-oil", Name: "Oil change", BaseCost: 120, EstimatedDuration: 60,
			IsAvailable: true, DefaultMechanicID: "mech-1",
		},
		"svc-brakes": {
			ID: "svc-brakes", Name: "Brake check", BaseCost: 90, EstimatedDuration: 30,
			IsAvailable: true,
		},
		"svc-retired": {
			ID: "svc-retired", Name: "Carburetor tune", BaseCost: 200, EstimatedDuration: 45,
			IsAvailable: false, DefaultMechanicID: "mech-1",
		},
	}}
	publisher := &capturePublisher{}

	svc := NewLifecycleService(bookings, users, vehicles, services, publisher, nil, zap.NewNop())
	svc.Now = func() time.Time { return testNow }
	return svc, bookings, services, publisher
}
