package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "autocare/database/repository/booking"
	serviceRepo "autocare/database/repository/service"
	userRepo "autocare/database/repository/user"
	vehicleRepo "autocare/database/repository/vehicle"
	"autocare/models"
	"autocare/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxCancellationReasonLen bounds the free-text reason on cancellation.
const MaxCancellationReasonLen = 200

// DefaultLifecycleService implements LifecycleService.
type DefaultLifecycleService struct {
	Bookings  bookingRepo.BookingRepository
	Users     userRepo.UserRepository
	Vehicles  vehicleRepo.VehicleRepository
	Services  serviceRepo.ServiceRepository
	Conflicts *ConflictChecker
	Notifier  notification.Publisher
	Cache     *redis.Client // optional; nil disables calendar caching
	Logger    *zap.Logger

	// Now is the clock used for past-date validation; overridable in tests.
	Now func() time.Time

	// mechLocks serializes conflict-check-then-write per mechanic, so two
	// concurrent requests for overlapping windows cannot both pass the
	// check. The unique partial index on active slots is the storage-level
	// safety net behind it.
	mechLocks sync.Map
}

// NewLifecycleService wires a DefaultLifecycleService. cache may be nil.
func NewLifecycleService(
	bookings bookingRepo.BookingRepository,
	users userRepo.UserRepository,
	vehicles vehicleRepo.VehicleRepository,
	services serviceRepo.ServiceRepository,
	notifier notification.Publisher,
	cache *redis.Client,
	logger *zap.Logger,
) *DefaultLifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultLifecycleService{
		Bookings:  bookings,
		Users:     users,
		Vehicles:  vehicles,
		Services:  services,
		Conflicts: &ConflictChecker{Repo: bookings},
		Notifier:  notifier,
		Cache:     cache,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *DefaultLifecycleService) mechLock(mechanicID string) *sync.Mutex {
	lock, _ := s.mechLocks.LoadOrStore(mechanicID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Create validates and persists a new booking with status pending.
// Estimated cost and duration are snapshotted from the service record;
// later catalog changes do not affect existing bookings.
func (s *DefaultLifecycleService) Create(ctx context.Context, input CreateInput) (*models.Booking, error) {
	if input.OwnerID == "" || input.VehicleID == "" || input.ServiceID == "" ||
		input.Date == "" || input.Time == "" {
		return nil, NewError(CodeValidation, "owner, vehicle, service, date and time are required")
	}
	if !input.Location.Valid() {
		return nil, NewError(CodeValidation, "unknown service location %q", input.Location)
	}

	if _, err := s.Users.GetByID(ctx, input.OwnerID); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "owner %s not found", input.OwnerID)
		}
		return nil, err
	}

	vehicle, err := s.Vehicles.GetByID(ctx, input.VehicleID)
	if err != nil {
		if errors.Is(err, vehicleRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "vehicle %s not found", input.VehicleID)
		}
		return nil, err
	}
	if vehicle.OwnerID != input.OwnerID {
		return nil, NewError(CodeForbidden, "vehicle %s does not belong to owner %s", input.VehicleID, input.OwnerID)
	}

	svc, err := s.Services.GetByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "service %s not found", input.ServiceID)
		}
		return nil, err
	}
	if !svc.IsAvailable {
		return nil, NewError(CodeValidation, "service %s is not currently offered", input.ServiceID)
	}

	mechanicID, err := ResolveMechanicID(input.MechanicID, svc.DefaultMechanicID)
	if err != nil {
		return nil, err
	}
	mechanic, err := s.Users.GetByID(ctx, mechanicID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "mechanic %s not found", mechanicID)
		}
		return nil, err
	}
	if mechanic.Role != models.RoleMechanic || !mechanic.IsActive {
		return nil, NewError(CodeMechanicUnavailable, "mechanic %s is not an active mechanic", mechanicID)
	}

	normTime, err := NormalizeTimeOfDay(input.Time)
	if err != nil {
		return nil, err
	}
	start, _, err := ResolveWindow(input.Date, normTime, svc.EstimatedDuration)
	if err != nil {
		return nil, err
	}
	if start.Before(s.Now()) {
		return nil, NewError(CodePastDateTime, "booking start %s is in the past", start.Format(time.RFC3339))
	}

	lock := s.mechLock(mechanicID)
	lock.Lock()
	defer lock.Unlock()

	now := s.Now()
	booking := &models.Booking{
		ID:                uuid.New().String(),
		OwnerID:           input.OwnerID,
		MechanicID:        mechanicID,
		VehicleID:         input.VehicleID,
		ServiceID:         input.ServiceID,
		BookingDate:       input.Date,
		BookingTime:       normTime,
		EstimatedDuration: svc.EstimatedDuration,
		Status:            models.StatusPending,
		Location:          input.Location,
		EstimatedCost:     svc.BaseCost,
		Notes:             models.BookingNotes{Customer: input.Notes},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = s.Bookings.WithTransaction(ctx, func(txCtx context.Context) error {
		conflict, err := s.Conflicts.HasConflict(txCtx, mechanicID, input.Date, normTime, svc.EstimatedDuration, "")
		if err != nil {
			return err
		}
		if conflict {
			return NewError(CodeSlotUnavailable, "mechanic %s is already booked around %s %s", mechanicID, input.Date, normTime)
		}
		return s.Bookings.Create(txCtx, booking)
	})
	if err != nil {
		return nil, err
	}

	// Counter bump is bookkeeping, not part of the booking invariant.
	if err := s.Services.IncrementBookingCount(ctx, input.ServiceID); err != nil {
		s.Logger.Warn("failed to increment service booking counter",
			zap.String("serviceId", input.ServiceID), zap.Error(err))
	}

	s.notify(ctx, models.BookingEvent{Kind: models.EventBookingCreated, Booking: *booking})
	return booking, nil
}

// Transition applies a status change on behalf of an actor, enforcing the
// transition table and the actor's relationship to the booking.
func (s *DefaultLifecycleService) Transition(ctx context.Context, input TransitionInput) (*models.Booking, error) {
	b, err := s.getAuthorized(ctx, input.Actor, input.BookingID)
	if err != nil {
		return nil, err
	}

	if err := CanTransition(b.Status, input.Actor.Role, input.Target); err != nil {
		return nil, err
	}

	if input.Target == models.StatusCancelled {
		if input.CancellationReason == "" {
			return nil, NewError(CodeValidation, "a cancellation reason is required")
		}
		if len(input.CancellationReason) > MaxCancellationReasonLen {
			return nil, NewError(CodeValidation, "cancellation reason exceeds %d characters", MaxCancellationReasonLen)
		}
	}

	wasActive := b.Status.Active()
	b.Status = input.Target
	s.appendNote(b, input.Actor.Role, input.Notes)
	if input.Target == models.StatusCancelled {
		b.CancellationReason = input.CancellationReason
	}
	if input.Target == models.StatusCompleted && input.ActualCost != nil {
		b.ActualCost = input.ActualCost
	}
	b.UpdatedAt = s.Now()

	// Confirming is the moment a booking starts occupying the slot, so the
	// conflict check re-runs here under the mechanic's lock, and check and
	// write commit together.
	var writeErr error
	if input.Target == models.StatusConfirmed {
		lock := s.mechLock(b.MechanicID)
		lock.Lock()
		defer lock.Unlock()

		writeErr = s.Bookings.WithTransaction(ctx, func(txCtx context.Context) error {
			conflict, err := s.Conflicts.HasConflict(txCtx, b.MechanicID, b.BookingDate, b.BookingTime, b.EstimatedDuration, b.ID)
			if err != nil {
				return err
			}
			if conflict {
				return NewError(CodeSlotUnavailable, "mechanic %s is already booked around %s %s", b.MechanicID, b.BookingDate, b.BookingTime)
			}
			return s.Bookings.Replace(txCtx, b)
		})
	} else {
		writeErr = s.Bookings.Replace(ctx, b)
	}
	if writeErr != nil {
		if errors.Is(writeErr, bookingRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "booking %s not found", b.ID)
		}
		return nil, writeErr
	}

	if wasActive || b.Status.Active() {
		s.bumpCalendarVersion(ctx, b.MechanicID)
	}

	event := models.BookingEvent{Booking: *b}
	switch input.Target {
	case models.StatusConfirmed:
		event.Kind = models.EventBookingConfirmed
	case models.StatusInProgress:
		event.Kind = models.EventBookingInProgress
	case models.StatusCompleted:
		event.Kind = models.EventBookingCompleted
		event.PromptReview = true
	case models.StatusCancelled:
		event.Kind = models.EventBookingCancelled
		event.CancelledBy = input.Actor.Role
	case models.StatusNoShow:
		event.Kind = models.EventBookingNoShow
	}
	if event.Kind != "" {
		s.notify(ctx, event)
	}
	return b, nil
}

// Reschedule moves a booking to a new date/time, preserving the full
// history of prior windows. The booking comes out of it as rescheduled
// and must be confirmed again before it occupies the new slot.
func (s *DefaultLifecycleService) Reschedule(ctx context.Context, input RescheduleInput) (*models.Booking, error) {
	b, err := s.getAuthorized(ctx, input.Actor, input.BookingID)
	if err != nil {
		return nil, err
	}

	if b.Status.Terminal() {
		return nil, NewError(CodeInvalidTransition, "booking is %s; it can no longer be rescheduled", b.Status)
	}
	if b.Status == models.StatusInProgress {
		return nil, NewError(CodeInvalidTransition, "a booking already in progress cannot be rescheduled")
	}

	normTime, err := NormalizeTimeOfDay(input.NewTime)
	if err != nil {
		return nil, err
	}
	start, _, err := ResolveWindow(input.NewDate, normTime, b.EstimatedDuration)
	if err != nil {
		return nil, err
	}
	if start.Before(s.Now()) {
		return nil, NewError(CodePastDateTime, "new booking start %s is in the past", start.Format(time.RFC3339))
	}

	lock := s.mechLock(b.MechanicID)
	lock.Lock()
	defer lock.Unlock()

	wasActive := b.Status.Active()
	b.RescheduleHistory = append(b.RescheduleHistory, models.RescheduleEntry{
		OriginalDate: b.BookingDate,
		OriginalTime: b.BookingTime,
		NewDate:      input.NewDate,
		NewTime:      normTime,
		Reason:       input.Reason,
		ChangedBy:    string(input.Actor.Role),
		ChangedAt:    s.Now(),
	})
	b.BookingDate = input.NewDate
	b.BookingTime = normTime
	b.Status = models.StatusRescheduled
	b.UpdatedAt = s.Now()

	err = s.Bookings.WithTransaction(ctx, func(txCtx context.Context) error {
		conflict, err := s.Conflicts.HasConflict(txCtx, b.MechanicID, input.NewDate, normTime, b.EstimatedDuration, b.ID)
		if err != nil {
			return err
		}
		if conflict {
			return NewError(CodeSlotUnavailable, "mechanic %s is already booked around %s %s", b.MechanicID, input.NewDate, normTime)
		}
		return s.Bookings.Replace(txCtx, b)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "booking %s not found", b.ID)
		}
		return nil, err
	}

	if wasActive {
		s.bumpCalendarVersion(ctx, b.MechanicID)
	}
	s.notify(ctx, models.BookingEvent{Kind: models.EventBookingRescheduled, Booking: *b})
	return b, nil
}

// GetBooking returns one booking, visible to the admin, the assigned
// mechanic and the owner.
func (s *DefaultLifecycleService) GetBooking(ctx context.Context, actor Actor, bookingID string) (*models.Booking, error) {
	return s.getAuthorized(ctx, actor, bookingID)
}

// ListBookings returns bookings scoped to the actor's role: owners see
// their own, mechanics see assigned work, admins see everything.
func (s *DefaultLifecycleService) ListBookings(ctx context.Context, actor Actor, filter ListFilter) ([]models.Booking, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewError(CodeValidation, "unknown status %q", filter.Status)
	}

	repoFilter := bookingRepo.ListFilter{Status: filter.Status}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleCustomer:
		repoFilter.OwnerID = actor.ID
	case models.RoleMechanic:
		repoFilter.MechanicID = actor.ID
	default:
		return nil, NewError(CodeForbidden, "role %s may not list bookings", actor.Role)
	}
	return s.Bookings.List(ctx, repoFilter)
}

// getAuthorized fetches a booking and verifies the actor is the admin,
// the assigned mechanic or the owner.
func (s *DefaultLifecycleService) getAuthorized(ctx context.Context, actor Actor, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "booking %s not found", bookingID)
		}
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleMechanic:
		if b.MechanicID != actor.ID {
			return nil, NewError(CodeForbidden, "mechanic %s is not assigned to booking %s", actor.ID, bookingID)
		}
	case models.RoleCustomer:
		if b.OwnerID != actor.ID {
			return nil, NewError(CodeForbidden, "booking %s does not belong to customer %s", bookingID, actor.ID)
		}
	default:
		return nil, NewError(CodeForbidden, "unknown role %q", actor.Role)
	}
	return b, nil
}

func (s *DefaultLifecycleService) appendNote(b *models.Booking, role models.Role, note string) {
	if note == "" {
		return
	}
	target := &b.Notes.Admin
	switch role {
	case models.RoleCustomer:
		target = &b.Notes.Customer
	case models.RoleMechanic:
		target = &b.Notes.Mechanic
	}
	if *target != "" {
		*target += "\n"
	}
	*target += note
}

// notify emits a lifecycle event after the mutation has been committed.
// Delivery is best-effort: a failing notification collaborator must never
// roll back or fail the state transition.
func (s *DefaultLifecycleService) notify(ctx context.Context, event models.BookingEvent) {
	if s.Notifier == nil {
		return
	}
	event.ID = uuid.New().String()
	event.OccurredAt = s.Now()
	if err := s.Notifier.PublishBookingEvent(ctx, event); err != nil {
		s.Logger.Warn("failed to publish booking event",
			zap.String("kind", string(event.Kind)),
			zap.String("bookingId", event.Booking.ID),
			zap.Error(err))
	}
}
