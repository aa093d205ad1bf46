package booking

import (
	"context"
	"time"

	"autocare/models"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string
	Role models.Role
}

// CreateInput carries a booking creation request.
type CreateInput struct {
	OwnerID    string
	VehicleID  string
	ServiceID  string
	MechanicID string // optional; service default used when empty
	Date       string // "YYYY-MM-DD"
	Time       string // "HH:MM"
	Location   models.ServiceLocation
	Notes      string // stored as the customer note
}

// TransitionInput carries a status transition request.
type TransitionInput struct {
	BookingID          string
	Actor              Actor
	Target             models.BookingStatus
	Notes              string   // appended to the actor's note field
	CancellationReason string   // required when Target is cancelled
	ActualCost         *float64 // optionally recorded on completion
}

// RescheduleInput carries a reschedule request.
type RescheduleInput struct {
	BookingID string
	Actor     Actor
	NewDate   string
	NewTime   string
	Reason    string
}

// ListFilter narrows role-scoped booking listings.
type ListFilter struct {
	Status models.BookingStatus
}

// LifecycleService orchestrates booking creation, status transitions,
// reschedules and the read-side projections built on them.
type LifecycleService interface {
	Create(ctx context.Context, input CreateInput) (*models.Booking, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Booking, error)
	Reschedule(ctx context.Context, input RescheduleInput) (*models.Booking, error)
	GetBooking(ctx context.Context, actor Actor, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actor Actor, filter ListFilter) ([]models.Booking, error)
	MechanicCalendar(ctx context.Context, actor Actor, mechanicID string, month time.Month, year int) ([]models.Booking, error)
}
