package bookingRepo

import (
	"context"
	"errors"

	"autocare/models"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

// ListFilter narrows booking list queries. Zero values mean "no filter".
type ListFilter struct {
	OwnerID    string
	MechanicID string
	Status     models.BookingStatus
}

// BookingRepository persists booking records. A booking document carries
// its status, notes and reschedule history together, so every write here
// is atomic: either the full record commits or nothing does.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Replace overwrites the stored document for booking.ID.
	Replace(ctx context.Context, booking *models.Booking) error
	// ListByMechanicAndStatus returns the mechanic's bookings in any of the
	// given statuses, unordered. Used by the conflict checker.
	ListByMechanicAndStatus(ctx context.Context, mechanicID string, statuses []models.BookingStatus) ([]models.Booking, error)
	// ListMechanicCalendar returns the mechanic's bookings in the given
	// statuses with booking_date in [fromDate, toDate), ordered ascending
	// by (booking_date, booking_time). Empty fromDate/toDate disables the
	// range filter.
	ListMechanicCalendar(ctx context.Context, mechanicID string, statuses []models.BookingStatus, fromDate, toDate string) ([]models.Booking, error)
	// List returns bookings matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]models.Booking, error)
	// WithTransaction runs fn inside a storage transaction: repository
	// calls made with the context fn receives commit or abort together.
	// The conflict check and the slot write run under it so a failed
	// check never leaves a half-committed booking behind.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
